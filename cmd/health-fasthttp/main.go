package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"

	"tabsd/pkg/httpx"
)

// Lean standalone health probe. The same handler runs on fasthttp or
// net/http via the httpx adapters, which is also how the adapters stay
// covered by a real binary.
func main() {
	addr := flag.String("addr", ":8081", "listen address for the health probe")
	ver := flag.String("version", "dev", "version string to return")
	transport := flag.String("transport", "fasthttp", "transport: fasthttp or nethttp")
	flag.Parse()

	h := func(w httpx.ResponseWriter, r *httpx.Request) {
		switch r.Path {
		case "/health", "/healthz":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(fmt.Sprintf("{\"status\":\"ok\",\"version\":\"%s\"}", *ver)))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}

	switch *transport {
	case "nethttp":
		srv := &http.Server{
			Addr:         *addr,
			Handler:      httpx.NetHTTPAdapter(h),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		}
		fmt.Printf("net/http health probe listening on %s\n", *addr)
		if err := srv.ListenAndServe(); err != nil {
			fmt.Printf("net/http server exit: %v\n", err)
		}
	default:
		srv := &fasthttp.Server{
			Handler:            httpx.FastHTTPAdapter(h),
			Name:               "tabsd-health",
			ReadTimeout:        5 * time.Second,
			WriteTimeout:       5 * time.Second,
			MaxRequestBodySize: 1 << 20,
		}
		fmt.Printf("fasthttp health probe listening on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			fmt.Printf("fasthttp server exit: %v\n", err)
		}
	}
}
