package classify

import (
	"sync"
	"time"

	"tabsd/pkg/logger"
	"tabsd/pkg/models"
)

// Store owns the append-only message ledger, the chat directory, the
// viewer identity and every cache derived from them. Mutations never
// update caches in place; they bump a generation counter and readers
// rebuild lazily, so "is this result fresh" is a single comparison.
//
// The classification itself is synchronous and allocation-light; the
// mutex only exists because the HTTP layer drives the store from
// concurrent handlers.
type Store struct {
	mu sync.Mutex

	order Order
	lex   *Lexicon

	viewer int64
	ledger []models.Message
	chats  map[models.PeerRef]models.Chat

	gen     uint64
	types   map[models.PeerRef]typeEntry
	results map[Category]resultEntry

	// categorizedAt is the freshness epoch: zero means no categorization
	// pass has been finalized for the current generation.
	categorizedAt time.Time
}

type typeEntry struct {
	cat Category
	gen uint64
}

type resultEntry struct {
	msgs []models.Message
	gen  uint64
}

// Options configures a Store. Zero value gives title-first ordering and
// the built-in lexicons.
type Options struct {
	Order              Order
	ExtraNewsPatterns  []string
	ExtraGroupPatterns []string
}

// New builds a Store. It only fails when an extra lexicon pattern from
// config does not compile.
func New(opts Options) (*Store, error) {
	lex, err := NewLexicon(opts.ExtraNewsPatterns, opts.ExtraGroupPatterns)
	if err != nil {
		return nil, err
	}
	return &Store{
		order:   opts.Order,
		lex:     lex,
		chats:   make(map[models.PeerRef]models.Chat),
		types:   make(map[models.PeerRef]typeEntry),
		results: make(map[Category]resultEntry),
	}, nil
}

// SetViewer stores the viewer identity ("whose mailbox this is") and
// invalidates all caches: the Personal category is identity-relative.
func (s *Store) SetViewer(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewer = id
	s.invalidate()
}

// Viewer returns the current viewer identity (0 = unset).
func (s *Store) Viewer() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewer
}

// ClearCaches drops the classification cache and all three result caches
// and zeroes the freshness epoch. Idempotent.
func (s *Store) ClearCaches() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidate()
}

// Append concatenates the batch onto the ledger preserving arrival order,
// then invalidates caches. An empty batch is a no-op beyond the
// invalidation.
func (s *Store) Append(msgs []models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = append(s.ledger, msgs...)
	s.invalidate()
	ledgerSize.Set(float64(len(s.ledger)))
}

// UpsertChats registers conversation entities referenced by message
// peers. Chat evidence feeds classification, so this invalidates caches
// the same way a message append does.
func (s *Store) UpsertChats(chats []models.Chat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chats {
		ref := c.Ref()
		if !ref.Valid() {
			logger.Warn("chat_upsert_skipped", "kind", string(c.Kind), "id", c.ID)
			continue
		}
		s.chats[ref] = c
	}
	s.invalidate()
	chatCount.Set(float64(len(s.chats)))
}

// ForceRecategorize clears caches and stamps the freshness epoch
// immediately, so categorization happens eagerly at the next read rather
// than the epoch waiting for a first reader.
func (s *Store) ForceRecategorize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidate()
	s.categorizedAt = time.Now()
	recategorizations.Inc()
}

// invalidate bumps the generation and zeroes the epoch. Callers hold mu.
func (s *Store) invalidate() {
	s.gen++
	s.categorizedAt = time.Time{}
	cacheGeneration.Set(float64(s.gen))
}

// Epoch returns the freshness epoch (zero until a read finalizes it or
// ForceRecategorize stamps it).
func (s *Store) Epoch() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categorizedAt
}

// Personal returns the messages currently assigned to the personal
// category. Without a viewer identity it warns and returns an empty
// sequence; a missing viewer is recoverable, not an error.
func (s *Store) Personal() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categoryLocked(Personal)
}

// News returns the messages currently assigned to the news category.
func (s *Store) News() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categoryLocked(News)
}

// Discussion returns the messages currently assigned to the discussion
// category.
func (s *Store) Discussion() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categoryLocked(Discussion)
}

// Grouped is the read entry point for the serving layer: all three
// categories from one consistent generation.
type Grouped struct {
	Personal   []models.Message `json:"personal"`
	News       []models.Message `json:"news"`
	Discussion []models.Message `json:"discussion"`
}

// GroupedByCategory computes (or serves from cache) all three category
// result sets.
func (s *Store) GroupedByCategory() Grouped {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Grouped{
		Personal:   s.categoryLocked(Personal),
		News:       s.categoryLocked(News),
		Discussion: s.categoryLocked(Discussion),
	}
}

// categoryLocked serves one category, consulting the result cache first.
// A cached result is only valid when it belongs to the current generation
// and the epoch has been finalized. The first reader of a fresh
// generation stamps the epoch for all three categories, since they are
// read together in practice.
func (s *Store) categoryLocked(cat Category) []models.Message {
	if e, ok := s.results[cat]; ok && e.gen == s.gen && !s.categorizedAt.IsZero() {
		cacheHits.WithLabelValues(cat.String()).Inc()
		return e.msgs
	}
	cacheMisses.WithLabelValues(cat.String()).Inc()

	out := []models.Message{}
	if cat == Personal && s.viewer == 0 {
		logger.Warn("personal_requires_viewer", "ledger", len(s.ledger))
	} else {
		for _, m := range s.ledger {
			if s.admitLocked(m, cat) {
				out = append(out, m)
			}
		}
	}
	s.results[cat] = resultEntry{msgs: out, gen: s.gen}
	if s.categorizedAt.IsZero() {
		s.categorizedAt = time.Now()
	}
	return out
}

// Stats is a point-in-time summary for the admin surface.
type Stats struct {
	Ledger        int       `json:"ledger"`
	Chats         int       `json:"chats"`
	Viewer        int64     `json:"viewer,omitempty"`
	Personal      int       `json:"personal"`
	News          int       `json:"news"`
	Discussion    int       `json:"discussion"`
	CategorizedAt time.Time `json:"categorized_at,omitempty"`
}

// Snapshot computes current stats. It drives the same lazy categorization
// path as a grouped read.
func (s *Store) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{
		Ledger:     len(s.ledger),
		Chats:      len(s.chats),
		Viewer:     s.viewer,
		Personal:   len(s.categoryLocked(Personal)),
		News:       len(s.categoryLocked(News)),
		Discussion: len(s.categoryLocked(Discussion)),
	}
	st.CategorizedAt = s.categorizedAt
	return st
}
