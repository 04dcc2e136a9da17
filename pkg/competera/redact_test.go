package competera

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/competera-client/pkg/apiclient"
)

func TestRedactMasksAPIKey(t *testing.T) {
	cases := []struct{ in, want string }{
		{
			in:   "https://x/session/user?username=u&api_key=S3CRET&format=json",
			want: "https://x/session/user?username=u&api_key=***&format=json",
		},
		{
			in:   `Get "https://x/?API_KEY=S3CRET": dial tcp: refused`,
			want: `Get "https://x/?API_KEY=***": dial tcp: refused`,
		},
		{in: "no credentials here", want: "no credentials here"},
	}
	for _, tc := range cases {
		if got := Redact(tc.in); got != tc.want {
			t.Fatalf("Redact(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRedactErrorKeepsServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	svc := NewService(Credentials{
		BaseURL:  srv.URL,
		Username: "demo",
		APIKey:   "S3CRET-KEY",
	}, apiclient.NewClient(apiclient.WithTimeout(2*time.Second)))

	_, err := svc.Test(context.Background())
	if err == nil || !strings.Contains(err.Error(), "S3CRET-KEY") {
		t.Fatalf("expected raw error to quote the request URI, got %v", err)
	}

	redacted := RedactError(err)
	if strings.Contains(redacted.Error(), "S3CRET-KEY") {
		t.Fatalf("api key leaked: %s", redacted.Error())
	}
	var svcErr *apiclient.ServiceError
	if !errors.As(redacted, &svcErr) || svcErr.APIErrorCode() != http.StatusUnauthorized {
		t.Fatalf("expected 401 ServiceError, got %#v", redacted)
	}
	if RedactError(nil) != nil {
		t.Fatalf("nil error must stay nil")
	}
}
