package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/makotocarlos/backend-inspecciones-gas/models"
	"github.com/makotocarlos/backend-inspecciones-gas/services"
)

func TestResolverMatchesByDNI(t *testing.T) {
	t.Parallel()

	f := newFixture()
	existing := f.seedClient(models.User{
		Username:  "laura",
		FirstName: "Laura",
		LastName:  "Pérez",
		DNI:       strPtr("1067845123"),
	})
	resolver := services.NewClientResolver(f.store)

	got := resolver.Resolve(services.ClientContact{
		Name:  "Laura Pérez",
		Phone: "3001234567",
		DNI:   strPtr("1067845123"),
	})
	if got == nil {
		t.Fatal("Resolve = nil, want existing client")
	}
	if got.ID != existing.ID {
		t.Errorf("resolved ID = %s, want %s", got.ID, existing.ID)
	}
}

func TestResolverDNIWinsOverEmail(t *testing.T) {
	t.Parallel()

	f := newFixture()
	byDNI := f.seedClient(models.User{
		Username: "laura", FirstName: "Laura", LastName: "Pérez",
		DNI: strPtr("1067845123"),
	})
	f.seedClient(models.User{
		Username: "otra", FirstName: "Otra", LastName: "Persona",
		Email: strPtr("laura@example.com"),
	})
	resolver := services.NewClientResolver(f.store)

	got := resolver.Resolve(services.ClientContact{
		Name:  "Laura Pérez",
		Phone: "3001234567",
		DNI:   strPtr("1067845123"),
		Email: strPtr("laura@example.com"),
	})
	if got == nil {
		t.Fatal("Resolve = nil, want client matched by DNI")
	}
	if got.ID != byDNI.ID {
		t.Errorf("resolved ID = %s, want DNI match %s", got.ID, byDNI.ID)
	}
}

func TestResolverEmailCaseInsensitive(t *testing.T) {
	t.Parallel()

	f := newFixture()
	existing := f.seedClient(models.User{
		Username: "laura", FirstName: "Laura", LastName: "Pérez",
		Email: strPtr("Laura@Example.com"),
	})
	resolver := services.NewClientResolver(f.store)

	got := resolver.Resolve(services.ClientContact{
		Name:  "Laura Pérez",
		Phone: "3001234567",
		Email: strPtr("laura@example.com"),
	})
	if got == nil || got.ID != existing.ID {
		t.Fatalf("Resolve = %v, want case-insensitive email match %s", got, existing.ID)
	}
}

func TestResolverMergesOnlyMissingFields(t *testing.T) {
	t.Parallel()

	f := newFixture()
	existing := f.seedClient(models.User{
		Username: "laura", FirstName: "Laura", LastName: "Pérez",
		DNI:   strPtr("1067845123"),
		Email: strPtr("laura@example.com"),
	})
	resolver := services.NewClientResolver(f.store)

	resolver.Resolve(services.ClientContact{
		Name:    "Laura Pérez",
		Phone:   "3001234567",
		DNI:     strPtr("1067845123"),
		Email:   strPtr("nueva@example.com"),
		Address: strPtr("Calle 44 #10-23"),
	})

	stored, err := f.store.GetUser(existing.ID)
	if err != nil {
		t.Fatalf("GetUser error = %v", err)
	}
	if stored.Email == nil || *stored.Email != "laura@example.com" {
		t.Errorf("email = %v, existing value must not be overwritten", stored.Email)
	}
	if stored.Phone == nil || *stored.Phone != "3001234567" {
		t.Errorf("phone = %v, missing field must be filled", stored.Phone)
	}
	if stored.Address == nil || *stored.Address != "Calle 44 #10-23" {
		t.Errorf("address = %v, missing field must be filled", stored.Address)
	}
}

func TestResolverProvisionsNewClient(t *testing.T) {
	t.Parallel()

	f := newFixture()
	resolver := services.NewClientResolver(f.store)

	got := resolver.Resolve(services.ClientContact{
		Name:  "Jorge Andrés Díaz",
		Phone: "3017654321",
		Email: strPtr("jorge.diaz@example.com"),
	})
	if got == nil {
		t.Fatal("Resolve = nil, want provisioned client")
	}
	if got.Username != "jorge.diaz" {
		t.Errorf("username = %q, want email localpart jorge.diaz", got.Username)
	}
	if got.Role != models.RoleUser {
		t.Errorf("role = %s, want USER", got.Role)
	}
	if got.FirstName != "Jorge" || got.LastName != "Andrés Díaz" {
		t.Errorf("name split = %q / %q, want Jorge / Andrés Díaz", got.FirstName, got.LastName)
	}
}

func TestResolverUsernameCollisionSuffix(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.store.AddUser(models.User{
		ID: uuid.NewString(), Username: "jorge.diaz",
		FirstName: "Jorge", LastName: "Díaz", Role: models.RoleUser, IsActive: true,
	})
	resolver := services.NewClientResolver(f.store)

	got := resolver.Resolve(services.ClientContact{
		Name:  "Jorge Díaz",
		Phone: "3017654321",
		Email: strPtr("jorge.diaz@otro.com"),
	})
	if got == nil {
		t.Fatal("Resolve = nil, want provisioned client")
	}
	if got.Username != "jorge.diaz2" {
		t.Errorf("username = %q, want suffixed jorge.diaz2", got.Username)
	}
}

func TestResolverNoIdentityNoProvision(t *testing.T) {
	t.Parallel()

	f := newFixture()
	resolver := services.NewClientResolver(f.store)

	got := resolver.Resolve(services.ClientContact{
		Name:  "Anónimo",
		Phone: "3000000000",
	})
	if got != nil {
		t.Fatalf("Resolve without DNI or email = %v, want nil", got)
	}
	if len(f.store.Users) != 0 {
		t.Errorf("directory has %d users after anonymous booking, want 0", len(f.store.Users))
	}
}
