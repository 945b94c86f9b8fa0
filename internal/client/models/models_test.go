package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"admin", RoleAdmin, false},
		{"operador", RoleOperator, false},
		{"Operator", RoleOperator, false},
		{"visualizador", RoleViewer, false},
		{" viewer ", RoleViewer, false},
		{"root", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownRole)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUser_Normalize(t *testing.T) {
	u := User{ID: 1, Username: "ana", Role: "viewer"}
	require.NoError(t, u.Normalize())
	assert.Equal(t, RoleViewer, u.Role)
	assert.False(t, u.IsAdmin())

	bad := User{ID: 1, Username: "ana", Role: "superuser"}
	require.ErrorIs(t, bad.Normalize(), ErrUnknownRole)

	noID := User{Username: "ana", Role: "admin"}
	require.ErrorIs(t, noID.Normalize(), ErrInvalid)

	noName := User{ID: 2, Role: "admin"}
	require.ErrorIs(t, noName.Normalize(), ErrInvalid)
}

func TestVehicleInput_ValidateCreate(t *testing.T) {
	ok := VehicleInput{Plate: ptr("AA-11-BB"), Brand: ptr("Toyota"), Status: ptr(StatusInProgress)}
	require.NoError(t, ok.ValidateCreate())

	require.ErrorIs(t, VehicleInput{Brand: ptr("Toyota")}.ValidateCreate(), ErrInvalid)
	require.ErrorIs(t, VehicleInput{Plate: ptr("AA-11-BB"), Brand: ptr("  ")}.ValidateCreate(), ErrInvalid)
	require.ErrorIs(t, VehicleInput{Plate: ptr("AA-11-BB"), Brand: ptr("Toyota"), Status: ptr(VehicleStatus("stolen"))}.ValidateCreate(), ErrInvalid)
	require.ErrorIs(t, VehicleInput{Value: ptr(-1.0)}.ValidateUpdate(), ErrInvalid)
	require.ErrorIs(t, VehicleInput{VIN: ptr("123456789012345678")}.ValidateUpdate(), ErrInvalid)
}

func TestVehicleInput_OmitsUnsetFields(t *testing.T) {
	b, err := json.Marshal(VehicleInput{Status: ptr(StatusRecovered)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"recuperado"}`, string(b))
}

func TestVehicleDetail_Decode(t *testing.T) {
	body := `{"id":3,"matricula":"AA-11-BB","marca":"Toyota","modelo":null,"valor":12000.5,
		"status":"submetido","data_submissao":"2024-05-01T10:00:00.123456",
		"atualizacoes":[{"id":1,"vehicle_id":3,"descricao":"seen","tipo":"localizacao"}],
		"documentos":[{"id":9,"vehicle_id":3,"nome_original":"gps.pdf","tamanho_ficheiro":1024}]}`

	var d VehicleDetail
	require.NoError(t, json.Unmarshal([]byte(body), &d))
	assert.Equal(t, int64(3), d.ID)
	assert.Equal(t, "", d.Model)
	require.NotNil(t, d.Value)
	assert.InDelta(t, 12000.5, *d.Value, 0.001)
	assert.Equal(t, StatusSubmitted, d.Status)
	assert.Equal(t, 2024, d.SubmittedAt.Year())
	require.Len(t, d.Updates, 1)
	assert.Equal(t, UpdateLocation, d.Updates[0].Type)
	require.Len(t, d.Documents, 1)
	assert.Equal(t, int64(1024), *d.Documents[0].Size)
}

func TestUpdateInput_Validate(t *testing.T) {
	require.NoError(t, UpdateInput{Description: "called client", Type: UpdateContact}.Validate())
	require.ErrorIs(t, UpdateInput{Type: UpdateContact}.Validate(), ErrInvalid)
	require.ErrorIs(t, UpdateInput{Description: "x", Type: "note"}.Validate(), ErrInvalid)
}

func TestReference_Validate(t *testing.T) {
	tests := []struct {
		name string
		ref  Reference
		ok   bool
	}{
		{"brand", CarBrand{Name: "Toyota"}, true},
		{"brand no name", CarBrand{}, false},
		{"model", CarModel{Name: "Corolla", BrandID: 1}, true},
		{"model no brand", CarModel{Name: "Corolla"}, false},
		{"company", RentACar{Name: "Rent Lda"}, true},
		{"company no name", RentACar{NIF: "123"}, false},
		{"location", StoreLocation{Name: "Porto", RentACarID: 2}, true},
		{"location no company", StoreLocation{Name: "Porto"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ref.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestCarBrand_CreateBody(t *testing.T) {
	b, err := json.Marshal(CarBrand{Name: "Seat", IsActive: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Seat","is_active":true}`, string(b))
}

func TestNewUser_Validate(t *testing.T) {
	require.NoError(t, NewUser{Username: "u", Email: "u@x.pt", Password: "p", Role: RoleOperator}.Validate())
	require.ErrorIs(t, NewUser{Username: "u", Password: "p", Role: RoleOperator}.Validate(), ErrInvalid)
	require.ErrorIs(t, NewUser{Username: "u", Email: "e", Password: "p", Role: "boss"}.Validate(), ErrUnknownRole)
}
