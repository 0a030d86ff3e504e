package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"tabsd/pkg/classify"
	"tabsd/pkg/logger"
	"tabsd/pkg/models"
)

// fixture is the offline input shape: a viewer plus the chats and
// messages a running server would receive over /v1/messages.
type fixture struct {
	Viewer   int64            `json:"viewer"`
	Order    string           `json:"order,omitempty"`
	Chats    []models.Chat    `json:"chats"`
	Messages []models.Message `json:"messages"`
}

// Offline classifier: feed a JSON fixture through the engine and print
// the grouped inbox, without standing up the HTTP server.
func main() {
	var p string
	var dump bool
	flag.StringVar(&p, "path", "", "fixture file (JSON) to classify")
	flag.BoolVar(&dump, "dump", false, "print every message with its chat type")
	flag.Parse()
	if p == "" {
		fmt.Fprintln(os.Stderr, "--path required")
		os.Exit(2)
	}
	logger.Init()

	b, err := os.ReadFile(p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read fixture: %v\n", err)
		os.Exit(1)
	}
	var fx fixture
	if err := json.Unmarshal(b, &fx); err != nil {
		fmt.Fprintf(os.Stderr, "parse fixture: %v\n", err)
		os.Exit(1)
	}

	order, ok := classify.ParseOrder(fx.Order)
	if !ok {
		fmt.Fprintf(os.Stderr, "invalid order %q\n", fx.Order)
		os.Exit(1)
	}
	store, err := classify.New(classify.Options{Order: order})
	if err != nil {
		fmt.Fprintf(os.Stderr, "build store: %v\n", err)
		os.Exit(1)
	}
	store.SetViewer(fx.Viewer)
	store.UpsertChats(fx.Chats)
	store.Append(fx.Messages)

	grouped := store.GroupedByCategory()
	fmt.Printf("viewer=%d messages=%d chats=%d\n", fx.Viewer, len(fx.Messages), len(fx.Chats))
	fmt.Printf("personal=%d news=%d discussion=%d\n",
		len(grouped.Personal), len(grouped.News), len(grouped.Discussion))

	if dump {
		for _, m := range fx.Messages {
			fmt.Printf("%s peer=%s/%d type=%s\n", m.ID, m.Peer.Kind, m.Peer.ID, store.ChatType(m))
		}
	}
}
