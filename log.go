package segalloc

import "github.com/sirupsen/logrus"

// Log is the package-level logger used for the diagnostics §7 calls for:
// double-free reports and provider-refusal warnings. It defaults to
// logrus's standard logger and can be replaced wholesale by an embedder
// (e.g. to redirect output or attach hooks), the same way the teacher
// gated its stderr tracing behind a single package-level switch.
var Log = logrus.StandardLogger()

type logFields = logrus.Fields

// LogFields lets callers outside the package (cmd/allocbench included)
// build structured fields for Log without importing logrus directly.
type LogFields = logrus.Fields
