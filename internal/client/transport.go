package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrSessionExpired indica que el refresh fallo y la sesion local fue borrada.
var ErrSessionExpired = errors.New("session expired")

const (
	codeTokenExpired = "token_expired"
	maxErrorBody     = 64 << 10
)

// Transport adjunta el access token y, ante un 401 token_expired, renueva el token
// y reintenta el request una unica vez.
type Transport struct {
	Base       http.RoundTripper
	Store      TokenStore
	RefreshURL string
	// OnSignedOut se invoca cuando el refresh falla, despues de borrar los tokens.
	OnSignedOut func()
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	tokens, err := t.Store.Load()
	if err != nil {
		closeBody(req)
		return nil, err
	}
	getBody, err := replayableBody(req)
	if err != nil {
		return nil, err
	}

	first, err := withToken(req, tokens.AccessToken, getBody)
	if err != nil {
		return nil, err
	}
	resp, err := t.base().RoundTrip(first)
	if err != nil || !isTokenExpired(resp) {
		return resp, err
	}
	drain(resp)

	access, err := t.refresh(req, tokens)
	if err != nil {
		t.signOut()
		return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	retry, err := withToken(req, access, getBody)
	if err != nil {
		return nil, err
	}
	return t.base().RoundTrip(retry)
}

func (t *Transport) refresh(orig *http.Request, tokens Tokens) (string, error) {
	if tokens.RefreshToken == "" {
		return "", errors.New("no refresh token")
	}
	payload, err := json.Marshal(map[string]string{"refreshToken": tokens.RefreshToken})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(orig.Context(), http.MethodPost, t.RefreshURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return "", err
	}
	defer drain(resp)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("refresh status %d", resp.StatusCode)
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body); err != nil {
		return "", fmt.Errorf("decode refresh: %w", err)
	}
	if body.Token == "" {
		return "", errors.New("refresh returned empty token")
	}
	tokens.AccessToken = body.Token
	if err := t.Store.Save(tokens); err != nil {
		return "", err
	}
	return body.Token, nil
}

func (t *Transport) signOut() {
	_ = t.Store.Clear()
	if t.OnSignedOut != nil {
		t.OnSignedOut()
	}
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// replayableBody devuelve una fabrica de cuerpos para poder reenviar el request.
func replayableBody(req *http.Request) (func() (io.ReadCloser, error), error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	if req.GetBody != nil {
		// Cada intento usa una copia de GetBody; el cuerpo original no se envia.
		closeBody(req)
		return req.GetBody, nil
	}
	data, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("buffer request body: %w", err)
	}
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}, nil
}

func withToken(req *http.Request, access string, getBody func() (io.ReadCloser, error)) (*http.Request, error) {
	out := req.Clone(req.Context())
	if getBody != nil {
		body, err := getBody()
		if err != nil {
			return nil, err
		}
		out.Body = body
		out.GetBody = getBody
	}
	if access != "" {
		out.Header.Set("Authorization", "Bearer "+access)
	}
	return out, nil
}

// peekedBody reantepone los bytes ya leidos al resto del cuerpo original.
type peekedBody struct {
	io.Reader
	io.Closer
}

// isTokenExpired inspecciona el inicio del cuerpo de un 401 y lo deja completo
// para el llamador.
func isTokenExpired(resp *http.Response) bool {
	if resp.StatusCode != http.StatusUnauthorized || resp.Body == nil {
		return false
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	resp.Body = peekedBody{Reader: io.MultiReader(bytes.NewReader(data), resp.Body), Closer: resp.Body}
	if err != nil {
		return false
	}
	var body struct {
		Code string `json:"code"`
	}
	if json.Unmarshal(data, &body) != nil {
		return false
	}
	return body.Code == codeTokenExpired
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
}

func closeBody(req *http.Request) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
}
