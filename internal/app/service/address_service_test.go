package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/ikkim/mapaddress-backend/internal/app/model"
	"github.com/ikkim/mapaddress-backend/internal/app/repository"
	"github.com/ikkim/mapaddress-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedChange struct {
	kind    string
	address model.Address
}

type recordingNotifier struct {
	mu      sync.Mutex
	changes []recordedChange
}

func (n *recordingNotifier) NotifyAddressChange(kind string, address model.Address) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, recordedChange{kind: kind, address: address})
}

func (n *recordingNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	kinds := make([]string, 0, len(n.changes))
	for _, c := range n.changes {
		kinds = append(kinds, c.kind)
	}
	return kinds
}

func setupAddressServiceTest(t *testing.T) (AddressService, *recordingNotifier) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	notifier := &recordingNotifier{}
	return NewAddressService(repository.NewGormAddressRepository(testDB), notifier), notifier
}

func validAddress() *model.Address {
	return &model.Address{
		UserID:      "user123",
		House:       "12A",
		Apartment:   "Elm St",
		Coordinates: model.Coordinates{Lat: 37.77, Lng: -122.41},
	}
}

func TestAddressService_CreateAddress(t *testing.T) {
	svc, notifier := setupAddressServiceTest(t)
	ctx := context.Background()

	address := validAddress()
	address.ID = "client-supplied"
	require.NoError(t, svc.CreateAddress(ctx, address))

	assert.NotEqual(t, "client-supplied", address.ID)
	assert.Equal(t, model.CategoryHome, address.Category)
	assert.False(t, address.Favorite)
	assert.Equal(t, []string{ChangeCreated}, notifier.kinds())

	all, err := svc.ListAddresses(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, *address, all[0])
}

func TestAddressService_CreateAddressValidation(t *testing.T) {
	svc, notifier := setupAddressServiceTest(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(a *model.Address)
	}{
		{name: "Missing user id", mutate: func(a *model.Address) { a.UserID = "  " }},
		{name: "Unknown category", mutate: func(a *model.Address) { a.Category = "Gym" }},
		{name: "Latitude out of range", mutate: func(a *model.Address) { a.Coordinates.Lat = 91 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			address := validAddress()
			tt.mutate(address)
			err := svc.CreateAddress(ctx, address)
			assert.ErrorIs(t, err, ErrInvalidAddress)
		})
	}

	all, err := svc.ListAddresses(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, notifier.kinds())
}

func TestAddressService_UpdateAddress(t *testing.T) {
	svc, notifier := setupAddressServiceTest(t)
	ctx := context.Background()

	address := validAddress()
	require.NoError(t, svc.CreateAddress(ctx, address))

	favorite := true
	updated, err := svc.UpdateAddress(ctx, address.ID, model.AddressPatch{Favorite: &favorite})
	require.NoError(t, err)
	assert.True(t, updated.Favorite)
	assert.Equal(t, address.ID, updated.ID)
	assert.Equal(t, address.Coordinates, updated.Coordinates)
	assert.Equal(t, []string{ChangeCreated, ChangeUpdated}, notifier.kinds())
}

func TestAddressService_UpdateAddressErrors(t *testing.T) {
	svc, _ := setupAddressServiceTest(t)
	ctx := context.Background()

	address := validAddress()
	require.NoError(t, svc.CreateAddress(ctx, address))

	house := "7"
	bad := model.Category("Gym")
	empty := ""

	tests := []struct {
		name    string
		id      string
		patch   model.AddressPatch
		wantErr error
	}{
		{name: "Unknown id", id: uuid.NewString(), patch: model.AddressPatch{House: &house}, wantErr: ErrAddressNotFound},
		{name: "Malformed id", id: "abc", patch: model.AddressPatch{House: &house}, wantErr: ErrInvalidAddressID},
		{name: "Bad category", id: address.ID, patch: model.AddressPatch{Category: &bad}, wantErr: ErrInvalidAddress},
		{name: "Empty user id", id: address.ID, patch: model.AddressPatch{UserID: &empty}, wantErr: ErrInvalidAddress},
		{name: "Bad coordinates", id: address.ID, patch: model.AddressPatch{Coordinates: &model.Coordinates{Lat: 0, Lng: 200}}, wantErr: ErrInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := svc.UpdateAddress(ctx, tt.id, tt.patch)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, updated)
		})
	}
}

func TestAddressService_DeleteAddress(t *testing.T) {
	svc, notifier := setupAddressServiceTest(t)
	ctx := context.Background()

	address := validAddress()
	require.NoError(t, svc.CreateAddress(ctx, address))

	deleted, err := svc.DeleteAddress(ctx, address.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, address.ID, deleted.ID)

	deleted, err = svc.DeleteAddress(ctx, address.ID)
	require.NoError(t, err)
	assert.Nil(t, deleted)

	_, err = svc.DeleteAddress(ctx, "abc")
	assert.ErrorIs(t, err, ErrInvalidAddressID)

	assert.Equal(t, []string{ChangeCreated, ChangeDeleted}, notifier.kinds())
}

func TestAddressService_ImportAddresses(t *testing.T) {
	svc, notifier := setupAddressServiceTest(t)
	ctx := context.Background()

	rows := []model.Address{*validAddress(), *validAddress()}
	rows[1].Category = model.CategoryOffice

	n, err := svc.ImportAddresses(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, notifier.kinds(), 2)

	bad := []model.Address{*validAddress(), {UserID: ""}}
	_, err = svc.ImportAddresses(ctx, bad)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	all, err := svc.ListAddresses(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

type failingRepository struct {
	repository.AddressRepository
}

func (failingRepository) FindAll(context.Context) ([]model.Address, error) {
	return nil, errors.New("connection refused")
}

func TestAddressService_ListAddressesStoreFailure(t *testing.T) {
	svc := NewAddressService(failingRepository{}, nil)

	_, err := svc.ListAddresses(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrAddressNotFound)
}
