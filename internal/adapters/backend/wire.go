package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/user"
)

// flexID accepts numeric or string ids.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*f = flexID(strconv.FormatInt(i, 10))
		return nil
	}
	*f = flexID(n.String())
	return nil
}

// wireUser is the backend's user object. Fields vary by endpoint; all are optional.
type wireUser struct {
	UserID     flexID   `json:"userId"`
	ID         flexID   `json:"id"`
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Profile    string   `json:"profile"`
	Role       string   `json:"role"`
	Roles      []string `json:"roles"`
	Verified   bool     `json:"isVerified"`
	EmailValid bool     `json:"isEmailVerified"`
	Active     *bool    `json:"isActive"`
}

func (u wireUser) id() string {
	if u.UserID != "" {
		return string(u.UserID)
	}
	return string(u.ID)
}

func (u wireUser) displayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

func (u wireUser) active() bool { return u.Active == nil || *u.Active }

func (u wireUser) summary() user.Summary {
	return user.Summary{
		UserID:          u.id(),
		Username:        u.Username,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		ProfileImageURL: u.Profile,
		Role:            u.Role,
		Active:          u.active(),
	}
}

func (u wireUser) identity(role domainauth.Role) domainauth.Identity {
	return domainauth.Identity{
		UserID:          u.id(),
		Username:        u.Username,
		Email:           u.Email,
		Role:            role,
		DisplayName:     u.displayName(),
		ProfileImageURL: u.Profile,
		Verified:        u.Verified || u.EmailValid,
		Active:          u.active(),
	}
}

// userPage is a paged user listing. Bare arrays are accepted too.
type userPage struct {
	Content []wireUser `json:"content"`
}

func decodeUsers(body []byte) ([]wireUser, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var list []wireUser
		err := json.Unmarshal(body, &list)
		return list, err
	}
	var page userPage
	err := json.Unmarshal(body, &page)
	return page.Content, err
}

// followEdge is one entry of the following list.
type followEdge struct {
	Followed  *wireUser `json:"followed"`
	Following *wireUser `json:"following"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	IsActive  bool   `json:"isActive"`
	Role      string `json:"role"`
	SecretKey string `json:"secretKey,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// errorMessage extracts a human message from an error body.
func errorMessage(body []byte) string {
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		if eb.Message != "" {
			return eb.Message
		}
		return eb.Error
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 || strings.HasPrefix(s, "<") {
		return ""
	}
	return s
}
