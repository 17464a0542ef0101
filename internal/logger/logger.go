package logger

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// L is the shared application logger. JSON lines so the dashboard's log
// shipper can ingest them directly.
var L = logrus.New()

// Setup configures level and formatting. Unknown levels fall back to info.
func Setup(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	L.SetLevel(parsed)
	L.SetOutput(os.Stdout)
	L.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
}
