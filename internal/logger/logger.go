package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Init configura o logger global do logrus usado em todo o serviço.
func Init() {
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level := logrus.InfoLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if parsed, err := logrus.ParseLevel(v); err == nil {
			level = parsed
		}
	}
	logrus.SetLevel(level)
}
