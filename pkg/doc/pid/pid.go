/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package pid holds the person identification data delivered by identification and encoded into credentials.
package pid

import (
	"errors"
	"fmt"
	"time"
)

// DataIssueMessage is returned to the wallet when identity data cannot be encoded into a credential.
const DataIssueMessage = "PID could not get issued due to a data issue. " +
	"Please contact the support of Bundesdruckerei GmbH."

// ErrDataIssue marks identity data that cannot be encoded into a credential.
var ErrDataIssue = errors.New("pid data issue")

const birthdateLayout = "2006-01-02"

// IssuingCountry is used for issuing_country and issuing_authority.
const IssuingCountry = "DE"

type Place struct {
	Locality string `json:"locality,omitempty"`
	Country  string `json:"country,omitempty"`
	Region   string `json:"region,omitempty"`
}

func (p *Place) IsEmpty() bool {
	return p == nil || (p.Locality == "" && p.Country == "" && p.Region == "")
}

type Address struct {
	Formatted     string `json:"formatted,omitempty"`
	Country       string `json:"country,omitempty"`
	Region        string `json:"region,omitempty"`
	Locality      string `json:"locality,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
	StreetAddress string `json:"street_address,omitempty"`
}

func (a *Address) IsEmpty() bool {
	return a == nil || (a.Formatted == "" && a.Country == "" && a.Region == "" &&
		a.Locality == "" && a.PostalCode == "" && a.StreetAddress == "")
}

// Data is set once from the identification result and never modified afterwards.
type Data struct {
	Pseudonym       string   `json:"pseudonym"`
	FamilyName      string   `json:"family_name"`
	GivenName       string   `json:"given_name"`
	Birthdate       string   `json:"birthdate"`
	PlaceOfBirth    *Place   `json:"place_of_birth,omitempty"`
	BirthFamilyName string   `json:"birth_family_name,omitempty"`
	Address         *Address `json:"address,omitempty"`
	Nationality     string   `json:"nationality,omitempty"`
}

// Validate checks the mandatory attributes.
func (d *Data) Validate() error {
	if d.FamilyName == "" || d.GivenName == "" {
		return fmt.Errorf("%w: name missing", ErrDataIssue)
	}

	if _, err := d.BirthdateTime(); err != nil {
		return err
	}

	return nil
}

func (d *Data) BirthdateTime() (time.Time, error) {
	t, err := time.Parse(birthdateLayout, d.Birthdate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: birthdate %q", ErrDataIssue, d.Birthdate)
	}

	return t, nil
}

// AgeInYears returns the completed years at now.
func (d *Data) AgeInYears(now time.Time) (int, error) {
	born, err := d.BirthdateTime()
	if err != nil {
		return 0, err
	}

	now = now.UTC()
	age := now.Year() - born.Year()

	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}

	return age, nil
}

// Normalized returns a copy with all country codes mapped to ISO 3166-1 alpha-2.
func (d *Data) Normalized() (*Data, error) {
	out := *d

	var err error

	if out.Nationality != "" {
		if out.Nationality, err = CountryCode(out.Nationality); err != nil {
			return nil, err
		}
	}

	if !d.PlaceOfBirth.IsEmpty() {
		p := *d.PlaceOfBirth
		if p.Country != "" {
			if p.Country, err = CountryCode(p.Country); err != nil {
				return nil, err
			}
		}

		out.PlaceOfBirth = &p
	} else {
		out.PlaceOfBirth = nil
	}

	if !d.Address.IsEmpty() {
		a := *d.Address
		if a.Country != "" {
			if a.Country, err = CountryCode(a.Country); err != nil {
				return nil, err
			}
		}

		out.Address = &a
	} else {
		out.Address = nil
	}

	return &out, nil
}

// AgeThresholds are the age_equal_or_over / age_over_NN attestations.
var AgeThresholds = []int{12, 14, 16, 18, 21, 65}

// TestData is the well-known test identity used by the mock identification provider.
func TestData() *Data {
	return &Data{
		Pseudonym:       "pseudonym",
		FamilyName:      "MUSTERMANN",
		GivenName:       "ERIKA",
		Birthdate:       "1964-08-12",
		PlaceOfBirth:    &Place{Locality: "BERLIN"},
		BirthFamilyName: "GABLER",
		Address: &Address{
			StreetAddress: "HEIDESTRASSE 17",
			Country:       "DE",
			Locality:      "KÖLN",
			PostalCode:    "51147",
		},
		Nationality: "DE",
	}
}
