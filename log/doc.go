// Package log builds [log/slog] handlers from CLI flags.
//
// Three output formats are supported: [FormatJSON], [FormatLogfmt] and the
// human-readable [FormatText]. Levels are [LevelError], [LevelWarn],
// [LevelInfo] and [LevelDebug]. Use [NewHandler] directly, or bind flags with
// [Config]:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	handler, err := cfg.NewHandler(os.Stderr)
//	slog.SetDefault(slog.New(handler))
//
// While a full-screen terminal program owns stderr, route logs through a
// [Publisher] and render entries from a [Subscription]:
//
//	pub := log.NewPublisher()
//	logger := slog.New(log.NewHandler(pub, log.LevelInfo, log.FormatLogfmt))
//	sub := pub.Subscribe()
//	for entry := range sub.C() {
//		// Show entry.
//	}
package log
