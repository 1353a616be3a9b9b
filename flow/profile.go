package flow

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"ru-ticket/model"
)

var ErrNoProfile = errors.New("no profile registered")

// Profile is the self-declared identity kept on the client. The server never
// sees or verifies it.
type Profile struct {
	Id         string       `json:"id"`
	Name       string       `json:"name"`
	Category   string       `json:"category"`
	Price      model.Money  `json:"price"`
	Photo      string       `json:"photo,omitempty"`
	TicketId   string       `json:"ticketId,omitempty"`
	Meal       string       `json:"meal,omitempty"`
	MealPrice  *model.Money `json:"mealPrice,omitempty"`
	Restaurant string       `json:"restaurant,omitempty"`
}

// DisplayPrice is the last meal price, or the standing category price before
// any purchase.
func (p Profile) DisplayPrice() model.Money {
	if p.MealPrice != nil {
		return *p.MealPrice
	}
	return p.Price
}

type ProfileStore struct {
	Path string
}

func (s ProfileStore) Load() (*Profile, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoProfile
	}
	if err != nil {
		return nil, err
	}

	var profile Profile
	if err = json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", s.Path, err)
	}

	return &profile, nil
}

// Save replaces the profile file atomically.
func (s ProfileStore) Save(profile *Profile) error {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.Path)
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".profile-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.Path)
}

func (s ProfileStore) Delete() error {
	err := os.Remove(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
