// Package captcha verifies reCAPTCHA tokens submitted with the login form.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

type Verifier struct {
	secret    string
	verifyURL string
	http      *http.Client
	logger    *zap.Logger
}

func NewVerifier(secret, verifyURL string, timeout time.Duration, logger *zap.Logger) *Verifier {
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	return &Verifier{
		secret:    secret,
		verifyURL: verifyURL,
		http:      &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

// Verify reports whether token passes verification. A missing secret, a
// network error or an unreadable answer all count as a failed check.
func (v *Verifier) Verify(ctx context.Context, token string) bool {
	if v.secret == "" {
		v.logger.Error("RECAPTCHA_SECRET_KEY is not set")
		return false
	}

	ok, err := v.verify(ctx, token)
	if err != nil {
		v.logger.Error("CAPTCHA verification error", zap.Error(err))
		return false
	}
	return ok
}

func (v *Verifier) verify(ctx context.Context, token string) (bool, error) {
	form := url.Values{"secret": {v.secret}, "response": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to reach verification service: %w", err)
	}
	defer resp.Body.Close()

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("failed to parse verification response: %w", err)
	}
	if !body.Success {
		v.logger.Warn("reCAPTCHA rejected token", zap.Strings("error_codes", body.ErrorCodes))
	}
	return body.Success, nil
}
