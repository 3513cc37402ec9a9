package operator

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("operator: invalid credentials")

// Credentials verifies the single shared operator password against the
// bcrypt hash supplied via configuration. There is no operator table;
// whoever holds the password is the operator.
type Credentials struct {
	passwordHash string
}

func NewCredentials(passwordHash string) *Credentials {
	return &Credentials{passwordHash: passwordHash}
}

// Enabled reports whether operator login is configured at all.
func (c *Credentials) Enabled() bool {
	return c.passwordHash != ""
}

func (c *Credentials) Verify(password string) error {
	if !c.Enabled() {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.passwordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
