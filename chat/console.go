package chat

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Console consumes the stream from Team.RunStream and renders messages to w
// (os.Stdout when nil), ending with a summary of the run. It returns the
// final TaskResult.
func Console(stream <-chan StreamEvent, w io.Writer) TaskResult {
	if w == nil {
		w = os.Stdout
	}

	start := time.Now()
	var result TaskResult

	for ev := range stream {
		if ev.Result != nil {
			result = *ev.Result
			continue
		}
		fmt.Fprintf(w, "%s %s %s\n%s\n", strings.Repeat("-", 10), ev.Message.From(), strings.Repeat("-", 10), ev.Message.Body())
	}

	fmt.Fprintf(w, "%s Summary %s\n", strings.Repeat("-", 10), strings.Repeat("-", 10))
	fmt.Fprintf(w, "Number of messages: %d\n", len(result.Messages))
	fmt.Fprintf(w, "Finish reason: %s\n", result.StopReason)
	fmt.Fprintf(w, "Duration: %.2f seconds\n", time.Since(start).Seconds())

	return result
}
