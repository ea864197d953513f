// Package logtail reads the tail of the console's activity log.
//
// # Overview
//
// The console writes its own log with a log/slog text handler (the terminal
// belongs to the UI). The activity pane shows the newest lines of that file;
// this package reads them and splits each into time, level, message and
// key=value attributes so the pane can colour by level.
//
// # Reading Log Files
//
// Read uses a ring buffer to keep only the last maxLines, so memory is
// O(maxLines) regardless of file size. A missing file yields no lines and no
// error; the log may simply not exist yet.
//
//	lines, err := logtail.Read(cfg.LogPath(), 200)
//	entries := logtail.ParseAll(lines)
//
// # Parsing
//
// Parse understands the slog text format:
//
//	time=2026-01-02T03:04:05.000Z level=DEBUG msg=request method=GET path=/tenders/ status=200
//
// Quoted values are unquoted. Lines outside the format (panics, stray
// output) are kept whole in Message so nothing disappears from the pane.
package logtail
