package web

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestResponseOmitsUnsetExpiry(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		res  Response
	}{
		{name: "Error", res: Error(errors.New("account not found"))},
		{name: "Message", res: Message("Account 2 is currently blocked")},
		{name: "Data", res: Response{Data: 42}},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			body, err := json.Marshal(tc.res)
			if err != nil {
				t.Fatalf("json.Marshal(%+v) returned error: %v", tc.res, err)
			}

			if strings.Contains(string(body), "expires_at") {
				t.Errorf("json.Marshal(%+v) = %s, want no expiry fields", tc.res, body)
			}
		})
	}
}

func TestResponseCarriesSetExpiry(t *testing.T) {
	t.Parallel()

	expiresAt := time.Date(2024, time.March, 9, 18, 0, 0, 0, time.UTC)

	body, err := json.Marshal(Response{AccessToken: "token", AccessTokenExpiresAt: &expiresAt})
	if err != nil {
		t.Fatalf("json.Marshal returned error: %v", err)
	}

	want := `"access_token_expires_at":"2024-03-09T18:00:00Z"`
	if !strings.Contains(string(body), want) {
		t.Errorf("json.Marshal = %s, want it to contain %s", body, want)
	}

	if strings.Contains(string(body), "refresh_token_expires_at") {
		t.Errorf("json.Marshal = %s, want no refresh expiry", body)
	}
}
