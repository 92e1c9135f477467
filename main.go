package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gidixi/openclaw/config"
	"github.com/gidixi/openclaw/logger"
	"github.com/gidixi/openclaw/repair"
	"github.com/gidixi/openclaw/stream"
	"github.com/gidixi/openclaw/types"
)

// wireEvent is the JSONL representation of a stream event, one object
// per line on stdin and stdout.
type wireEvent struct {
	Kind         string                  `json:"kind"`
	Text         string                  `json:"text,omitempty"`
	ToolCall     *types.ToolCall         `json:"tool_call,omitempty"`
	ArgsFragment string                  `json:"args_fragment,omitempty"`
	Message      *types.AssistantMessage `json:"message,omitempty"`
	Error        string                  `json:"error,omitempty"`
}

func toStreamEvent(w wireEvent) types.StreamEvent {
	ev := types.StreamEvent{
		Kind:         types.EventKind(w.Kind),
		Text:         w.Text,
		ToolCall:     w.ToolCall,
		ArgsFragment: w.ArgsFragment,
		Message:      w.Message,
	}
	if w.Error != "" {
		ev.Err = errors.New(w.Error)
	}
	return ev
}

func fromStreamEvent(ev types.StreamEvent) wireEvent {
	w := wireEvent{
		Kind:         string(ev.Kind),
		Text:         ev.Text,
		ToolCall:     ev.ToolCall,
		ArgsFragment: ev.ArgsFragment,
		Message:      ev.Message,
	}
	if ev.Err != nil {
		w.Error = ev.Err.Error()
	}
	return w
}

// main replays a recorded model response stream from stdin through the
// repair rewriter and writes the rewritten stream to stdout. Useful for
// debugging repair behavior against captured agent transcripts.
func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML config")
	metricsAddr := flag.String("metrics", "", "address to serve Prometheus metrics on (empty disables)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(GetBuildInfo())
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	obsLogger, err := logger.NewObservabilityLogger(cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer obsLogger.Close()

	obsLogger.Info(logger.ComponentConfig, logger.CategoryDebug, "", "Repair replay starting", map[string]interface{}{
		"version":        GetVersionInfo(),
		"repair_enabled": cfg.RepairEnabled,
		"log_dir":        cfg.LogDir,
	})

	if !cfg.RepairEnabled {
		fmt.Fprintln(os.Stderr, "⚠️ Repair disabled; copying events through unchanged")
		if _, err := io.Copy(os.Stdout, os.Stdin); err != nil {
			log.Fatalf("Passthrough copy failed: %v", err)
		}
		return
	}

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("Metrics server stopped: %v", err)
			}
		}()
		fmt.Fprintf(os.Stderr, "✅ Prometheus metrics at %s/metrics\n", *metricsAddr)
	}

	observer := logger.NewRepairObserver(obsLogger)
	observer.SetSnapshotMaxLen(cfg.SnapshotMaxLen)

	registry := types.NewStandardSchemaRegistry()
	pipelineOpts := []repair.Option{repair.WithExtraAliases(cfg.ExtraAliases)}
	rewriterOpts := []stream.Option{}
	if !cfg.DisableRepairLogging {
		pipelineOpts = append(pipelineOpts, repair.WithObserver(observer))
		rewriterOpts = append(rewriterOpts, stream.WithObserver(observer))
	}
	if len(cfg.LeakMarkers) > 0 {
		rewriterOpts = append(rewriterOpts, stream.WithLeakMarkers(cfg.LeakMarkers))
	}

	rewriter := stream.NewRewriter(repair.NewPipeline(registry, pipelineOpts...), rewriterOpts...)

	in := make(chan types.StreamEvent)
	go func() {
		defer close(in)
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			var w wireEvent
			if err := json.Unmarshal(line, &w); err != nil {
				log.Printf("Skipping malformed event line: %v", err)
				continue
			}
			in <- toStreamEvent(w)
		}
		if err := scanner.Err(); err != nil {
			log.Printf("Stdin read error: %v", err)
		}
	}()

	out := rewriter.Pipe(context.Background(), in)
	encoder := json.NewEncoder(os.Stdout)
	for ev := range out {
		if err := encoder.Encode(fromStreamEvent(ev)); err != nil {
			log.Fatalf("Failed to write event: %v", err)
		}
	}
}
