// Command gdrive-auth runs the OAuth consent flow once and prints the refresh
// token to put in GDRIVE_REFRESH_TOKEN.
package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"minter/internal/config"
	"minter/internal/pkg/errors"
	"minter/internal/pkg/logger"
	"minter/internal/storage"
)

const authTimeout = 3 * time.Minute

func main() {
	log := logger.New(logger.Config{Level: "info", Format: "text", Output: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.LogFatal("failed to load configuration", err)
	}
	g := cfg.Storage.GDrive
	if strings.TrimSpace(g.ClientID) == "" || strings.TrimSpace(g.ClientSecret) == "" {
		log.LogFatal("GDRIVE_CLIENT_ID and GDRIVE_CLIENT_SECRET are required", nil)
	}

	token, err := authorize(context.Background(), g, log)
	if err != nil {
		log.LogFatal("authorization failed", err)
	}

	// A refresh token is only issued on the first consent for this client.
	if strings.TrimSpace(token.RefreshToken) == "" {
		log.Warn("no refresh token returned; revoke the app's access at https://myaccount.google.com/permissions and run again")
		os.Exit(1)
	}
	fmt.Println(token.RefreshToken)
}

func authorize(ctx context.Context, g config.GDriveConfig, log *logger.Logger) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, errors.Wrap(err, "gdrive_auth.listen", "open callback listener")
	}
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	redirectURL := fmt.Sprintf("http://127.0.0.1:%d/callback", port)
	conf := storage.OAuthConfig(g, redirectURL)

	state, err := randomState()
	if err != nil {
		return nil, err
	}

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(w, "invalid state", http.StatusBadRequest)
			errCh <- errors.Validation("callback state mismatch")
		case q.Get("error") != "":
			http.Error(w, "auth error: "+q.Get("error"), http.StatusBadRequest)
			errCh <- errors.Newf(errors.CodeFailedPrecond, "consent denied: %s", q.Get("error"))
		case q.Get("code") == "":
			http.Error(w, "missing code", http.StatusBadRequest)
			errCh <- errors.Validation("callback without code")
		default:
			fmt.Fprintln(w, "Authorized. You can close this window and return to the terminal.")
			codeCh <- q.Get("code")
		}
	})

	srv := &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() { _ = srv.Serve(ln) }()
	defer srv.Close()

	authURL := conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	log.Info("open this URL in a browser", "url", authURL, "callback", redirectURL)

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return nil, err
	case <-time.After(authTimeout):
		return nil, errors.New(errors.CodeTimeout, "timed out waiting for authorization")
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "gdrive_auth.exchange", "exchange code for token")
	}
	return token, nil
}

func randomState() (string, error) {
	b := make([]byte, 18)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "gdrive_auth.state", "generate state")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
