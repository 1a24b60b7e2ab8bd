// Package logfields holds canonical log field name constants and helpers so
// field names do not drift across packages.
package logfields

import "log/slog"

const (
	KeySubmissionID = "submission_id"
	KeyAssignment   = "assignment"
	KeyExerciseID   = "exercise_id"
	KeyTest         = "test"
	KeyPath         = "path"
	KeyMethod       = "method"
	KeyStatus       = "status"
	KeyRemoteAddr   = "remote_addr"
	KeyError        = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func SubmissionID(id string) slog.Attr { return slog.String(KeySubmissionID, id) }
func Assignment(a string) slog.Attr    { return slog.String(KeyAssignment, a) }
func ExerciseID(id string) slog.Attr   { return slog.String(KeyExerciseID, id) }
func Test(name string) slog.Attr       { return slog.String(KeyTest, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func RemoteAddr(a string) slog.Attr    { return slog.String(KeyRemoteAddr, a) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
