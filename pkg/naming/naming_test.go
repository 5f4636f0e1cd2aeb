package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeNameFromSchemaName(t *testing.T) {
	n := New(Options{})
	name, err := n.TypeName(Input{SchemaName: "pet_store"})
	require.NoError(t, err)
	assert.Equal(t, "PetStore", name)
}

func TestTypeNamePrefix(t *testing.T) {
	n := New(Options{Prefix: "Api"})
	name, err := n.TypeName(Input{SchemaName: "pet"})
	require.NoError(t, err)
	assert.Equal(t, "ApiPet", name)
}

func TestTypeNameFromOperationID(t *testing.T) {
	n := New(Options{UseOperationID: true})
	name, err := n.TypeName(Input{OperationID: "getPetById", Kind: "Response"})
	require.NoError(t, err)
	assert.Equal(t, "GetPetByIdResponse", name)
}

func TestTypeNameDerived(t *testing.T) {
	n := New(Options{})
	name, err := n.TypeName(Input{Method: "GET", Path: "/pets/{petId}", StatusCode: "200", Kind: "Response"})
	require.NoError(t, err)
	assert.Equal(t, "GetPetsPetId200Response", name)
}

func TestEndpointNameFromOperationID(t *testing.T) {
	n := New(Options{UseOperationID: true})
	name, err := n.EndpointName(Input{OperationID: "get-pet-by-id", Method: "GET", Path: "/pets/{id}"})
	require.NoError(t, err)
	assert.Equal(t, "getPetById", name)
}

func TestEndpointNameDerived(t *testing.T) {
	n := New(Options{})
	name, err := n.EndpointName(Input{Method: "DELETE", Path: "/users/<id>/orders"})
	require.NoError(t, err)
	assert.Equal(t, "deleteUsersIdOrders", name)
}

func TestCollisionSuffixInDeclarationOrder(t *testing.T) {
	n := New(Options{})
	first, err := n.TypeName(Input{SchemaName: "Pet"})
	require.NoError(t, err)
	second, err := n.TypeName(Input{SchemaName: "pet"})
	require.NoError(t, err)
	third, err := n.TypeName(Input{SchemaName: "PET"})
	require.NoError(t, err)
	assert.Equal(t, "Pet", first)
	assert.Equal(t, "Pet2", second)
	assert.Equal(t, "Pet3", third)
}

func TestRepeatedInputIsStable(t *testing.T) {
	n := New(Options{})
	in := Input{SchemaName: "Pet"}
	first, err := n.TypeName(in)
	require.NoError(t, err)
	again, err := n.TypeName(in)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	// Type and endpoint namespaces share the taken set but memoize
	// separately.
	ep, err := n.EndpointName(Input{Method: "GET", Path: "/pet"})
	require.NoError(t, err)
	assert.Equal(t, "getPet", ep)
}

func TestCustomFormatters(t *testing.T) {
	n := New(Options{
		TypeFormatter:     func(in Input) string { return "T_" + in.SchemaName },
		EndpointFormatter: func(in Input) string { return "ep_" + in.OperationID },
	})
	tn, err := n.TypeName(Input{SchemaName: "Pet"})
	require.NoError(t, err)
	assert.Equal(t, "T_Pet", tn)
	en, err := n.EndpointName(Input{OperationID: "listPets"})
	require.NoError(t, err)
	assert.Equal(t, "ep_listPets", en)
}

func TestEmptyDerivationFallsBack(t *testing.T) {
	n := New(Options{TypeFormatter: func(Input) string { return "" }})
	name, err := n.TypeName(Input{})
	require.NoError(t, err)
	assert.Equal(t, "unnamed", name)
}
