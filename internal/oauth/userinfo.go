package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Provider — тег варианта. Диспетчеризация по тегу, не наследованием.
type Provider string

const (
	Google Provider = "google"
	Kakao  Provider = "kakao"
	Naver  Provider = "naver"
)

var ErrUnknownProvider = errors.New("unknown oauth provider")

// UserInfo — единый контракт извлечения для всех провайдеров.
type UserInfo struct {
	ProviderID string
	Email      string
	Name       string
}

var userInfoEndpoints = map[Provider]string{
	Google: "https://www.googleapis.com/oauth2/v2/userinfo",
	Kakao:  "https://kapi.kakao.com/v2/user/me",
	Naver:  "https://openapi.naver.com/v1/nid/me",
}

type Client struct {
	http      *http.Client
	endpoints map[Provider]string
}

func NewClient() *Client {
	return &Client{
		http:      &http.Client{Timeout: 10 * time.Second},
		endpoints: userInfoEndpoints,
	}
}

// FetchUserInfo запрашивает профиль у провайдера по access-токену клиента.
func (c *Client) FetchUserInfo(ctx context.Context, provider Provider, accessToken string) (*UserInfo, error) {
	endpoint, ok := c.endpoints[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed: %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	return ParseUserInfo(provider, raw)
}

// ParseUserInfo разбирает ответ userinfo конкретного провайдера.
func ParseUserInfo(provider Provider, raw []byte) (*UserInfo, error) {
	switch provider {
	case Google:
		return parseGoogle(raw)
	case Kakao:
		return parseKakao(raw)
	case Naver:
		return parseNaver(raw)
	default:
		return nil, ErrUnknownProvider
	}
}

func parseGoogle(raw []byte) (*UserInfo, error) {
	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	if payload.ID == "" {
		return nil, errors.New("google userinfo: missing id")
	}
	return &UserInfo{ProviderID: payload.ID, Email: payload.Email, Name: payload.Name}, nil
}

func parseKakao(raw []byte) (*UserInfo, error) {
	var payload struct {
		ID      int64 `json:"id"`
		Account struct {
			Email   string `json:"email"`
			Profile struct {
				Nickname string `json:"nickname"`
			} `json:"profile"`
		} `json:"kakao_account"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	if payload.ID == 0 {
		return nil, errors.New("kakao userinfo: missing id")
	}
	return &UserInfo{
		ProviderID: strconv.FormatInt(payload.ID, 10),
		Email:      payload.Account.Email,
		Name:       payload.Account.Profile.Nickname,
	}, nil
}

func parseNaver(raw []byte) (*UserInfo, error) {
	var payload struct {
		Response struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"response"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	if payload.Response.ID == "" {
		return nil, errors.New("naver userinfo: missing id")
	}
	return &UserInfo{
		ProviderID: payload.Response.ID,
		Email:      payload.Response.Email,
		Name:       payload.Response.Name,
	}, nil
}
