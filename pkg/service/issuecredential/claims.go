/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"strconv"
	"time"

	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/mdoc"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/pid"
	"github.com/Bundesdruckerei-GmbH/pid-issuer-sub000/pkg/doc/sdjwt"
)

func sdjwtClaims(data *pid.Data, now time.Time) (*sdjwt.Claims, error) {
	birthdate, err := data.BirthdateTime()
	if err != nil {
		return nil, err
	}

	age, err := data.AgeInYears(now)
	if err != nil {
		return nil, err
	}

	claims := sdjwt.NewClaims().
		Plain("issuing_country", pid.IssuingCountry).
		Plain("issuing_authority", pid.IssuingCountry).
		SD("family_name", data.FamilyName).
		SD("given_name", data.GivenName).
		SD("birthdate", data.Birthdate).
		SD("age_birth_year", birthdate.Year()).
		SD("age_in_years", age)

	if data.BirthFamilyName != "" {
		claims.SD("birth_family_name", data.BirthFamilyName)
	}

	if data.Nationality != "" {
		claims.SD("nationalities", []string{data.Nationality})
	}

	ageOver := sdjwt.NewClaims()
	for _, threshold := range pid.AgeThresholds {
		ageOver.SD(strconv.Itoa(threshold), age >= threshold)
	}

	claims.Structured("age_equal_or_over", ageOver)

	if !data.PlaceOfBirth.IsEmpty() {
		p := data.PlaceOfBirth
		claims.Structured("place_of_birth", optionalSD(
			"locality", p.Locality,
			"country", p.Country,
			"region", p.Region,
		))
	}

	if !data.Address.IsEmpty() {
		a := data.Address
		claims.Structured("address", optionalSD(
			"locality", a.Locality,
			"country", a.Country,
			"region", a.Region,
			"formatted", a.Formatted,
			"postal_code", a.PostalCode,
			"street_address", a.StreetAddress,
		))
	}

	return claims, nil
}

// optionalSD adds the non empty values of the name/value pairs as disclosable claims.
func optionalSD(pairs ...string) *sdjwt.Claims {
	c := sdjwt.NewClaims()

	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			c.SD(pairs[i], pairs[i+1])
		}
	}

	return c
}

func mdocElements(data *pid.Data, now, validUntil time.Time) ([]mdoc.Element, error) {
	birthdate, err := data.BirthdateTime()
	if err != nil {
		return nil, err
	}

	age, err := data.AgeInYears(now)
	if err != nil {
		return nil, err
	}

	elements := []mdoc.Element{
		{Identifier: "family_name", Value: data.FamilyName},
		{Identifier: "given_name", Value: data.GivenName},
		{Identifier: "birth_date", Value: mdoc.FullDate(birthdate)},
		{Identifier: "age_in_years", Value: age},
		{Identifier: "age_birth_year", Value: birthdate.Year()},
	}

	for _, threshold := range pid.AgeThresholds {
		elements = append(elements, mdoc.Element{
			Identifier: "age_over_" + strconv.Itoa(threshold),
			Value:      age >= threshold,
		})
	}

	add := func(id, value string) {
		if value != "" {
			elements = append(elements, mdoc.Element{Identifier: id, Value: value})
		}
	}

	add("family_name_birth", data.BirthFamilyName)

	if !data.PlaceOfBirth.IsEmpty() {
		add("birth_place", data.PlaceOfBirth.Locality)
	}

	if !data.Address.IsEmpty() {
		add("resident_address", data.Address.Formatted)
		add("resident_country", data.Address.Country)
		add("resident_state", data.Address.Region)
		add("resident_city", data.Address.Locality)
		add("resident_postal_code", data.Address.PostalCode)
		add("resident_street", data.Address.StreetAddress)
	}

	add("nationality", data.Nationality)

	elements = append(elements,
		mdoc.Element{Identifier: "issuance_date", Value: now.UTC().Truncate(time.Second)},
		mdoc.Element{Identifier: "expiry_date", Value: validUntil.UTC().Truncate(time.Second)},
		mdoc.Element{Identifier: "issuing_authority", Value: pid.IssuingCountry},
		mdoc.Element{Identifier: "issuing_country", Value: pid.IssuingCountry},
	)

	return elements, nil
}
