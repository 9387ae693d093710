package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mkossman/noted-cli/internal/domain"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type requestCodeRequest struct {
	Pin string `json:"pin"`
}

type requestCodeResponse struct {
	ExpiresInMs int64 `json:"expiresInMs"`
}

type verifyCodeRequest struct {
	Code string `json:"code"`
}

type entrySchema struct {
	ID    string    `json:"id"`
	Text  string    `json:"text"`
	TsUTC time.Time `json:"tsUtc"`
}

type listResponse struct {
	Records   []entrySchema `json:"records"`
	Shortcuts []entrySchema `json:"shortcuts"`
}

type textRequest struct {
	Text string `json:"text"`
}

func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Username: username, Password: password}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("login response missing token")
	}
	return resp.Token, nil
}

func (c *Client) RequestCode(ctx context.Context, pin string) (time.Duration, error) {
	var resp requestCodeResponse
	if err := c.do(ctx, http.MethodPost, "/auth/telegram/request-code", requestCodeRequest{Pin: pin}, &resp); err != nil {
		return 0, err
	}
	return time.Duration(resp.ExpiresInMs) * time.Millisecond, nil
}

func (c *Client) VerifyCode(ctx context.Context, code string) (string, error) {
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/telegram/verify", verifyCodeRequest{Code: code}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("verify response missing token")
	}
	return resp.Token, nil
}

func (c *Client) ListEntries(ctx context.Context, kind domain.ListKind) ([]domain.Entry, error) {
	path, err := kindPath(kind)
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	rows := resp.Records
	if kind == domain.ListShortcuts {
		rows = resp.Shortcuts
	}

	entries := make([]domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, fromSchema(row))
	}
	return entries, nil
}

func (c *Client) CreateEntry(ctx context.Context, kind domain.ListKind, text string) (domain.Entry, error) {
	path, err := kindPath(kind)
	if err != nil {
		return domain.Entry{}, err
	}

	var created entrySchema
	if err := c.do(ctx, http.MethodPost, path, textRequest{Text: text}, &created); err != nil {
		return domain.Entry{}, err
	}
	return fromSchema(created), nil
}

func (c *Client) UpdateEntry(ctx context.Context, kind domain.ListKind, id domain.EntryID, text string) error {
	path, err := entryPath(kind, id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, path, textRequest{Text: text}, nil)
}

func (c *Client) DeleteEntry(ctx context.Context, kind domain.ListKind, id domain.EntryID) error {
	path, err := entryPath(kind, id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func kindPath(kind domain.ListKind) (string, error) {
	switch kind {
	case domain.ListRecords:
		return "/records", nil
	case domain.ListShortcuts:
		return "/shortcuts", nil
	default:
		return "", fmt.Errorf("unknown list kind %q", kind)
	}
}

func entryPath(kind domain.ListKind, id domain.EntryID) (string, error) {
	if id == "" {
		return "", errors.New("entry id is required")
	}

	base, err := kindPath(kind)
	if err != nil {
		return "", err
	}
	return base + "/" + string(id), nil
}

func fromSchema(row entrySchema) domain.Entry {
	return domain.Entry{
		ID:        domain.EntryID(row.ID),
		Text:      row.Text,
		CreatedAt: row.TsUTC,
	}
}
