// MindMate - emotion-aware wellness companion engine
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ananyak/mindmate/internal/bus"
	"github.com/ananyak/mindmate/internal/camera"
	"github.com/ananyak/mindmate/internal/companion"
	"github.com/ananyak/mindmate/internal/config"
	"github.com/ananyak/mindmate/internal/emotion"
	"github.com/ananyak/mindmate/internal/expression"
	"github.com/ananyak/mindmate/internal/logging"
	"github.com/ananyak/mindmate/internal/persona"
	"github.com/ananyak/mindmate/internal/speech"
	syncsrv "github.com/ananyak/mindmate/internal/sync"
)

// Global logger instance
var syslog *logging.Logger

func main() {
	var err error
	syslog, err = logging.New(nil) // Uses default config
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer syslog.Close()

	syslog.Info("main", "MindMate starting...", nil)

	zlogger := syslog.Zerolog()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		syslog.Warn("config", "Failed to load config, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		cfg = config.DefaultConfig()
	}
	syslog.Info("config", "Configuration loaded", map[string]interface{}{
		"cameraEnabled": cfg.Camera.Enabled,
		"inferenceURL":  cfg.Camera.InferenceURL,
		"syncAddr":      cfg.Sync.ListenAddr,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventBus := bus.NewEventBus()

	// Persona store: SQLite when a path is configured, memory otherwise
	var store persona.Store
	if cfg.Store.Path != "" {
		sqlStore, err := persona.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			syslog.Warn("persona", "SQLite store unavailable, falling back to memory", map[string]interface{}{
				"path":  cfg.Store.Path,
				"error": err.Error(),
			})
			store = persona.NewMemStore()
		} else {
			store = sqlStore
		}
	} else {
		store = persona.NewMemStore()
	}
	defer store.Close()

	// Camera detector: WebSocket stream from the inference backend
	var detector camera.Detector
	var stream *camera.StreamClient
	if cfg.Camera.Enabled {
		stream = camera.NewStreamClient(cfg.Camera.InferenceURL, 2*cfg.Camera.PollInterval, zlogger)
		if err := stream.Connect(ctx); err != nil {
			syslog.Warn("camera", "Camera stream connect failed", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			detector = stream
		}
	}

	// Speech provider
	var provider speech.Provider
	switch cfg.Speech.Provider {
	case "mock":
		provider = speech.NewMockProvider()
	default:
		provider = speech.NewHTTPProvider(&speech.HTTPProviderConfig{
			ServiceURL: cfg.Speech.ServiceURL,
			Timeout:    cfg.Speech.Timeout,
		}, zlogger)
	}

	comp := companion.New(companion.Deps{
		Config:   cfg,
		Logger:   zlogger,
		Bus:      eventBus,
		Detector: detector,
		Provider: provider,
		Store:    store,
	})

	// Sync server: avatar frames out, user input in
	var server *syncsrv.Server
	if cfg.Sync.Enabled {
		server = syncsrv.NewServer(cfg.Sync.ListenAddr, zlogger)
		server.SetTextHandler(func(clientID, text string) {
			reply := comp.HandleUserMessage(text)
			server.Broadcast("reply", reply)
		})
		server.SetEmotionHandler(func(clientID string, e emotion.Emotion) {
			if err := comp.SelectEmotion(e); err != nil {
				syslog.Warn("sync", "Rejected emotion selection", map[string]interface{}{
					"error": err.Error(),
				})
			}
		})
		server.SetLogsHandler(func(clientID string, limit int) {
			if err := server.SendTo(clientID, "logs", map[string]interface{}{
				"entries": syslog.GetHistory(limit),
				"path":    syslog.GetLogPath(),
			}); err != nil {
				syslog.Warn("sync", "Failed to send log history", map[string]interface{}{
					"error": err.Error(),
				})
			}
		})
		syslog.SetOnLog(func(entry logging.LogEntry) {
			server.Broadcast("log", entry)
		})
		server.SetActivityHandler(func(clientID, kind string) {
			switch kind {
			case "click":
				comp.RecordClick()
			case "pause":
				comp.RecordPause()
			case "break":
				comp.RecordBreak()
			}
		})
		eventBus.SubscribeMultiple([]bus.EventType{
			bus.EventTypeEmotionStabilized,
			bus.EventTypeResponseResolved,
			bus.EventTypeNavSuggested,
			bus.EventTypeAchievementUnlocked,
			bus.EventTypeFrustrationDetected,
			bus.EventTypeBreakSuggested,
			bus.EventTypeSpeakingStarted,
			bus.EventTypeSpeakingStopped,
		}, func(ev bus.Event) {
			server.Broadcast(string(ev.Type), ev.Data)
		})
		if err := server.Start(ctx); err != nil {
			syslog.Error("sync", "Sync server failed to start", err, nil)
		}
	}

	var onFrame func(expression.Frame)
	if server != nil {
		onFrame = server.BroadcastFrame
	}
	comp.Start(ctx, onFrame)

	// Periodic break check
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				comp.SuggestBreakIfDue()
			}
		}
	}()

	syslog.Info("main", "MindMate running", map[string]interface{}{
		"greeting": comp.Greeting(),
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	syslog.Info("main", "Shutting down", nil)
	cancel()
	comp.Stop()
	if stream != nil {
		stream.Disconnect()
	}
	if server != nil {
		server.Stop()
	}
	syslog.Info("main", "MindMate shutdown complete", nil)
}
