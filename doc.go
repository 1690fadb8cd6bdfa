// Package tidalbridge manages a long-lived TidalCycles interpreter
// subprocess and relays text fragments into it.
//
// The bridge spawns GHCi, primes it with a boot script, drains its output
// streams in the background, and serializes line-oriented sends with the
// newline translation the Tidal REPL expects. At most one session is alive
// per process; the Registry owns that single slot.
//
// # Basic Usage
//
// Editor integrations drive the bridge through a Registry:
//
//	registry := tidalbridge.NewRegistry(
//	    tidalbridge.WithBootFile("BootTidal.hs"),
//	    tidalbridge.WithNotifier(myNotifier),
//	)
//
//	// Toggle the session on (spawns GHCi, replays the boot file).
//	result, err := registry.Toggle(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Relay user-selected fragments. Blank fragments are dropped,
//	// write failures surface through the Notifier, never as panics.
//	registry.SendText(`d1 $ sound "bd sn"`)
//
//	// Silence all running patterns.
//	registry.Hush()
//
//	// Toggle again to stop.
//	result, err = registry.Toggle(ctx)
//
// # Logging
//
// For detailed operation tracking, use WithLogger:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	registry := tidalbridge.NewRegistry(
//	    tidalbridge.WithLogger(logger),
//	    tidalbridge.WithBootFile("BootTidal.hs"),
//	)
//
// # Error Handling
//
// Typed errors cover the failure classes:
//
//	if _, err := registry.Toggle(ctx); err != nil {
//	    var notFound *tidalbridge.GhciNotFoundError
//	    if errors.As(err, &notFound) {
//	        log.Fatalf("ghci not installed, searched: %v", notFound.SearchedPaths)
//	    }
//	    log.Fatal(err)
//	}
//
// Failures inside the background pump never escape as panics; they are
// delivered to the Notifier's OnError.
//
// # Requirements
//
// The bridge requires GHCi with the Tidal library installed, plus a boot
// file of interpreter commands. Use WithGhciPath for a non-PATH install.
package tidalbridge
