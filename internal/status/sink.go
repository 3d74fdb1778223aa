package status

import (
	"fmt"
	"os"

	"github.com/credprobe/credprobe/internal/credentials"
	"github.com/credprobe/credprobe/internal/targets"
)

// Sink appends run results to disk. The output file receives one line per
// valid credential; the optional log file receives one line per completed
// trial. Both are opened in append mode and written without buffering so
// partial results survive an interrupted run. Callers must serialize
// access; the Tracker does so under its own lock.
type Sink struct {
	output *os.File
	log    *os.File
}

// OpenSink opens the result destinations. logPath may be empty to disable
// per-attempt logging.
func OpenSink(outputPath, logPath string) (*Sink, error) {
	output, err := os.OpenFile(outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}

	s := &Sink{output: output}
	if logPath != "" {
		logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			output.Close()
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		s.log = logFile
	}

	return s, nil
}

// Valid appends one host:port:username:password record to the output file.
func (s *Sink) Valid(target targets.Target, cred credentials.Credential) error {
	_, err := fmt.Fprintf(s.output, "%s:%d:%s:%s\n", target.Host, target.Port, cred.Username, cred.Password)
	return err
}

// Attempt appends one log line for a completed trial; a no-op when no log
// file is configured.
func (s *Sink) Attempt(outcome string, target targets.Target, cred credentials.Credential, reason string) error {
	if s.log == nil {
		return nil
	}
	if reason != "" {
		_, err := fmt.Fprintf(s.log, "%s %s %s:%s %s\n", outcome, target, cred.Username, cred.Password, reason)
		return err
	}
	_, err := fmt.Fprintf(s.log, "%s %s %s:%s\n", outcome, target, cred.Username, cred.Password)
	return err
}

// Close releases both file handles.
func (s *Sink) Close() error {
	err := s.output.Close()
	if s.log != nil {
		if logErr := s.log.Close(); err == nil {
			err = logErr
		}
	}
	return err
}
