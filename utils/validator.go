package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
var phoneRegex = regexp.MustCompile(`^(\+33|0)[1-9](\d{2}){4}$`)
var codeRegex = regexp.MustCompile(`^[A-Z0-9]{4,12}$`)

const (
	// Longueur maximale d'un nom d'invité affiché dans la galerie
	MaxGuestNameLength = 50

	// Longueur maximale d'un mot du livre d'or ou d'un commentaire
	MaxMessageLength = 1000
)

// ValidationError représente une erreur de validation
type ValidationError struct {
	Field   string
	Message string
}

// Error implémente l'interface error
func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ValidateEmail valide un email
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "l'email est requis"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "format d'email invalide"}
	}
	return nil
}

// ValidatePassword valide un mot de passe
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "le mot de passe est requis"}
	}
	if len(password) < 6 {
		return ValidationError{Field: "password", Message: "le mot de passe doit contenir au moins 6 caractères"}
	}
	return nil
}

// ValidateRequired valide qu'un champ n'est pas vide
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: fmt.Sprintf("le champ %s est requis", field)}
	}
	return nil
}

// ValidatePhone valide un numéro de téléphone français
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, ".", "")
	phone = strings.ReplaceAll(phone, "-", "")

	if phone == "" {
		return ValidationError{Field: "telephone", Message: "le numéro de téléphone est requis"}
	}

	if !phoneRegex.MatchString(phone) && len(phone) < 10 {
		return ValidationError{Field: "telephone", Message: "format de téléphone invalide"}
	}

	return nil
}

// ValidateGuestName valide le nom libre saisi par un invité
func ValidateGuestName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "guest_name", Message: "le nom de l'invité est requis"}
	}
	if utf8.RuneCountInString(name) > MaxGuestNameLength {
		return ValidationError{Field: "guest_name", Message: fmt.Sprintf("le nom ne doit pas dépasser %d caractères", MaxGuestNameLength)}
	}
	return nil
}

// ValidateMessage valide un texte libre (livre d'or, commentaire)
func ValidateMessage(field, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return ValidationError{Field: field, Message: fmt.Sprintf("le champ %s est requis", field)}
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return ValidationError{Field: field, Message: fmt.Sprintf("le message ne doit pas dépasser %d caractères", MaxMessageLength)}
	}
	return nil
}

// ValidateShareCode valide un code de partage d'événement
func ValidateShareCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ValidationError{Field: "code", Message: "le code de partage est requis"}
	}
	if !codeRegex.MatchString(code) {
		return ValidationError{Field: "code", Message: "le code doit contenir 4 à 12 lettres majuscules ou chiffres"}
	}
	return nil
}
