package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"tabsd/pkg/classify"
	"tabsd/pkg/logger"
	"tabsd/pkg/models"
	"tabsd/pkg/telemetry"
	"tabsd/pkg/utils"
	"tabsd/pkg/validation"
)

// RegisterInbox registers the inbox endpoints onto the v1 subrouter.
func RegisterInbox(r *mux.Router, s *classify.Store) {
	r.HandleFunc("/viewer", putViewer(s)).Methods(http.MethodPut)
	r.HandleFunc("/viewer", getViewer(s)).Methods(http.MethodGet)
	r.HandleFunc("/messages", appendMessages(s)).Methods(http.MethodPost)
	r.HandleFunc("/inbox", getInbox(s)).Methods(http.MethodGet)
	r.HandleFunc("/inbox/verify", verifyCategory(s)).Methods(http.MethodPost)
	r.HandleFunc("/recategorize", recategorize(s)).Methods(http.MethodPost)
	r.HandleFunc("/stats", getStats(s)).Methods(http.MethodGet)
}

func putViewer(s *classify.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ID int64 `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			utils.JSONError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if body.ID <= 0 {
			utils.JSONError(w, http.StatusBadRequest, "viewer id must be positive")
			return
		}
		s.SetViewer(body.ID)
		logger.Info("viewer_set", "id", body.ID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func getViewer(s *classify.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_ = utils.JSONWrite(w, http.StatusOK, struct {
			ID int64 `json:"id"`
		}{ID: s.Viewer()})
	}
}

// appendMessages accepts a batch of messages plus optional chat records
// describing the conversations the batch references.
func appendMessages(s *classify.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		telemetry.SetRequestOp(r.Context(), "messages_append")
		var body struct {
			Chats    []models.Chat    `json:"chats,omitempty"`
			Messages []models.Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			utils.JSONError(w, http.StatusBadRequest, "invalid json")
			return
		}
		for i := range body.Messages {
			if body.Messages[i].ID == "" {
				body.Messages[i].ID = utils.GenID()
			}
			if body.Messages[i].TS == 0 {
				body.Messages[i].TS = time.Now().UTC().UnixNano()
			}
		}
		if err := validation.ValidateBatch(body.Messages); err != nil {
			utils.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		for _, c := range body.Chats {
			if err := validation.ValidateChat(c); err != nil {
				utils.JSONError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		if len(body.Chats) > 0 {
			s.UpsertChats(body.Chats)
		}
		s.Append(body.Messages)
		logger.Info("messages_appended", "messages", len(body.Messages), "chats", len(body.Chats))
		_ = utils.JSONWrite(w, http.StatusAccepted, struct {
			Accepted int `json:"accepted"`
			Chats    int `json:"chats"`
		}{Accepted: len(body.Messages), Chats: len(body.Chats)})
	}
}

// getInbox returns the grouped categories. Each group is re-filtered
// through Verify before rendering; the bulk query path and the
// single-message check are intentionally redundant so a divergence
// between them cannot leak a miscategorized message to clients.
func getInbox(s *classify.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		telemetry.SetRequestOp(r.Context(), "inbox_grouped")
		end := telemetry.StartSpan(r.Context(), "group_by_category")
		g := s.GroupedByCategory()
		end()

		end = telemetry.StartSpan(r.Context(), "verify_pass")
		out := classify.Grouped{
			Personal:   verifyAll(s, g.Personal, classify.Personal),
			News:       verifyAll(s, g.News, classify.News),
			Discussion: verifyAll(s, g.Discussion, classify.Discussion),
		}
		end()

		logger.Debug("inbox_served",
			"personal", len(out.Personal),
			"news", len(out.News),
			"discussion", len(out.Discussion),
		)
		_ = utils.JSONWrite(w, http.StatusOK, out)
	}
}

func verifyAll(s *classify.Store, msgs []models.Message, cat classify.Category) []models.Message {
	out := make([]models.Message, 0, len(msgs))
	for _, m := range msgs {
		if s.Verify(m, cat) {
			out = append(out, m)
		}
	}
	return out
}

func verifyCategory(s *classify.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Message  models.Message `json:"message"`
			Category string         `json:"category"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			utils.JSONError(w, http.StatusBadRequest, "invalid json")
			return
		}
		cat, ok := classify.ParseCategory(body.Category)
		if !ok {
			utils.JSONError(w, http.StatusBadRequest, "unknown category: "+body.Category)
			return
		}
		_ = utils.JSONWrite(w, http.StatusOK, struct {
			OK bool `json:"ok"`
		}{OK: s.Verify(body.Message, cat)})
	}
}

func recategorize(s *classify.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.ForceRecategorize()
		logger.Info("recategorize_requested")
		w.WriteHeader(http.StatusAccepted)
	}
}

func getStats(s *classify.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_ = utils.JSONWrite(w, http.StatusOK, s.Snapshot())
	}
}
