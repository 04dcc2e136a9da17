package apiclient

import (
	"fmt"

	"github.com/samvad-hq/competera-client/pkg/httpclient"
)

// Logger is the logging surface the client relies on.
type Logger = httpclient.Logger

// restyLogger routes resty's printf-style output into Logger.
type restyLogger struct {
	log Logger
}

func (r restyLogger) Errorf(format string, v ...interface{}) {
	r.log.ErrorObj("resty", "resty_message", fmt.Sprintf(format, v...))
}

func (r restyLogger) Warnf(format string, v ...interface{}) {
	r.log.WarnObj("resty", "resty_message", fmt.Sprintf(format, v...))
}

func (r restyLogger) Debugf(format string, v ...interface{}) {
	r.log.DebugObj("resty", "resty_message", fmt.Sprintf(format, v...))
}
