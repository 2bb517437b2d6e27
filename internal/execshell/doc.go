// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines abstractions used throughout the
// backup workflow to run git in a testable manner. Arguments carrying embedded
// credentials are redacted before they reach any log output.
package execshell
