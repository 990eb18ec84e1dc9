package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/makotocarlos/backend-inspecciones-gas/models"
)

// ClientContact is the loosely-structured contact data captured at booking
// time.
type ClientContact struct {
	Name               string
	Phone              string
	Email              *string
	DNI                *string
	Address            *string
	LastInspectionDate *string
}

// ClientResolver finds or provisions a client identity in the user
// directory. Resolution is best-effort: booking proceeds with a nil client
// link when data is insufficient or provisioning fails.
type ClientResolver struct {
	store Store
}

func NewClientResolver(store Store) *ClientResolver {
	return &ClientResolver{store: store}
}

// Resolve returns the matching or newly provisioned client, or nil when
// neither a DNI nor an email is available. Errors are logged, never
// propagated.
func (r *ClientResolver) Resolve(contact ClientContact) *models.User {
	if contact.DNI != nil && *contact.DNI != "" {
		user, err := r.store.GetUserByDNI(*contact.DNI)
		if err == nil {
			return r.mergeMissing(user, contact)
		}
		if err != ErrNotFound {
			log.Printf("[ClientResolver] DNI lookup failed: %v", err)
			return nil
		}
	}

	if contact.Email != nil && *contact.Email != "" {
		user, err := r.store.GetUserByEmail(*contact.Email)
		if err == nil {
			return r.mergeMissing(user, contact)
		}
		if err != ErrNotFound {
			log.Printf("[ClientResolver] email lookup failed: %v", err)
			return nil
		}
	}

	hasDNI := contact.DNI != nil && *contact.DNI != ""
	hasEmail := contact.Email != nil && *contact.Email != ""
	if !hasDNI && !hasEmail {
		return nil
	}

	return r.provision(contact)
}

// mergeMissing fills previously-null directory fields from the booking
// contact data. Existing values are never overwritten.
func (r *ClientResolver) mergeMissing(user *models.User, contact ClientContact) *models.User {
	fields := make(map[string]interface{})

	if user.Email == nil && contact.Email != nil && *contact.Email != "" {
		fields["email"] = *contact.Email
		user.Email = contact.Email
	}
	if user.DNI == nil && contact.DNI != nil && *contact.DNI != "" {
		fields["dni"] = *contact.DNI
		user.DNI = contact.DNI
	}
	if user.Phone == nil && contact.Phone != "" {
		fields["phone_number"] = contact.Phone
		phone := contact.Phone
		user.Phone = &phone
	}
	if user.Address == nil && contact.Address != nil && *contact.Address != "" {
		fields["address"] = *contact.Address
		user.Address = contact.Address
	}
	if contact.LastInspectionDate != nil && *contact.LastInspectionDate != "" {
		fields["last_inspection_date"] = *contact.LastInspectionDate
		user.LastInspectionDate = contact.LastInspectionDate
	}

	if len(fields) > 0 {
		if err := r.store.UpdateUser(user.ID, fields); err != nil {
			log.Printf("[ClientResolver] merge update failed for %s: %v", user.ID, err)
		}
	}
	return user
}

func (r *ClientResolver) provision(contact ClientContact) *models.User {
	username, err := r.uniqueUsername(contact)
	if err != nil {
		log.Printf("[ClientResolver] username derivation failed: %v", err)
		return nil
	}

	firstName := contact.Name
	lastName := ""
	if parts := strings.Fields(contact.Name); len(parts) > 1 {
		firstName = parts[0]
		lastName = strings.Join(parts[1:], " ")
	}

	user := &models.User{
		ID:                 uuid.NewString(),
		Username:           username,
		Email:              contact.Email,
		FirstName:          firstName,
		LastName:           lastName,
		DNI:                contact.DNI,
		Address:            contact.Address,
		Role:               models.RoleUser,
		IsActive:           true,
		LastInspectionDate: contact.LastInspectionDate,
	}
	if contact.Phone != "" {
		phone := contact.Phone
		user.Phone = &phone
	}

	if err := r.store.InsertUser(user); err != nil {
		log.Printf("[ClientResolver] provisioning failed for %s: %v", username, err)
		return nil
	}
	return user
}

// uniqueUsername derives a deterministic handle from the email localpart,
// the DNI or the phone, disambiguated with a numeric suffix on collision.
func (r *ClientResolver) uniqueUsername(contact ClientContact) (string, error) {
	var base string
	switch {
	case contact.Email != nil && *contact.Email != "":
		base = strings.ToLower(strings.SplitN(*contact.Email, "@", 2)[0])
	case contact.DNI != nil && *contact.DNI != "":
		base = "client_" + *contact.DNI
	case contact.Phone != "":
		base = "client_" + contact.Phone
	default:
		return "", fmt.Errorf("sin datos para derivar un usuario")
	}

	candidate := base
	for i := 2; ; i++ {
		_, err := r.store.GetUserByUsername(candidate)
		if err == ErrNotFound {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}
