package handler

import (
	"context"
	"encoding/json"
	"testing"

	"entgo.io/ent/dialect"
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientgraph/store"
)

type clientView struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Email   string        `json:"email"`
	Profile []profileView `json:"profile"`
}

type profileView struct {
	ID     string      `json:"id"`
	Bio    string      `json:"bio"`
	Client *clientView `json:"client"`
}

func newTestSchema(t *testing.T) graphql.Schema {
	t.Helper()
	ctx := context.Background()
	s, err := store.Open(ctx, dialect.SQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared&_fk=1")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(ctx))

	schema, err := NewResolver(s).Schema()
	require.NoError(t, err)
	return schema
}

func do(t *testing.T, schema graphql.Schema, query string, vars map[string]interface{}) *graphql.Result {
	t.Helper()
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        context.Background(),
	})
}

// mustDo runs the operation, requires it to succeed and decodes its data into out.
func mustDo(t *testing.T, schema graphql.Schema, query string, vars map[string]interface{}, out interface{}) {
	t.Helper()
	res := do(t, schema, query, vars)
	require.Empty(t, res.Errors)
	raw, err := json.Marshal(res.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

const (
	createClientOp = `mutation($name: String!, $email: String!) {
		createClient(name: $name, email: $email) { id name email }
	}`
	createProfileOp = `mutation($bio: String!, $clientID: String!) {
		createProfile(bio: $bio, client_id: $clientID) { id bio client { id } }
	}`
	singleClientOp = `query($id: String!) {
		singleClient(id: $id) { id name email profile { id bio } }
	}`
	singleProfileOp = `query($id: String!) {
		singleProfile(id: $id) { id bio client { id name email } }
	}`
	deleteClientOp = `mutation($id: String!) {
		deleteClient(id: $id) { id name email }
	}`
)

func createClient(t *testing.T, schema graphql.Schema, name, email string) clientView {
	t.Helper()
	var out struct {
		CreateClient clientView `json:"createClient"`
	}
	mustDo(t, schema, createClientOp, map[string]interface{}{"name": name, "email": email}, &out)
	return out.CreateClient
}

func createProfile(t *testing.T, schema graphql.Schema, bio, clientID string) profileView {
	t.Helper()
	var out struct {
		CreateProfile profileView `json:"createProfile"`
	}
	mustDo(t, schema, createProfileOp, map[string]interface{}{"bio": bio, "clientID": clientID}, &out)
	return out.CreateProfile
}

func TestExampleScenario(t *testing.T) {
	schema := newTestSchema(t)

	c := createClient(t, schema, "Ann", "ann@x.com")
	require.NotEmpty(t, c.ID)
	assert.Equal(t, "Ann", c.Name)
	assert.Equal(t, "ann@x.com", c.Email)

	p := createProfile(t, schema, "hi", c.ID)
	require.NotEmpty(t, p.ID)
	assert.Equal(t, "hi", p.Bio)
	require.NotNil(t, p.Client)
	assert.Equal(t, c.ID, p.Client.ID)

	var single struct {
		SingleClient *clientView `json:"singleClient"`
	}
	mustDo(t, schema, singleClientOp, map[string]interface{}{"id": c.ID}, &single)
	require.NotNil(t, single.SingleClient)
	assert.Equal(t, []profileView{{ID: p.ID, Bio: "hi"}}, single.SingleClient.Profile)

	var deleted struct {
		DeleteClient *clientView `json:"deleteClient"`
	}
	mustDo(t, schema, deleteClientOp, map[string]interface{}{"id": c.ID}, &deleted)
	require.NotNil(t, deleted.DeleteClient)
	assert.Equal(t, clientView{ID: c.ID, Name: "Ann", Email: "ann@x.com"}, *deleted.DeleteClient)

	var profile struct {
		SingleProfile *profileView `json:"singleProfile"`
	}
	mustDo(t, schema, singleProfileOp, map[string]interface{}{"id": p.ID}, &profile)
	assert.Nil(t, profile.SingleProfile)

	single.SingleClient = nil
	mustDo(t, schema, singleClientOp, map[string]interface{}{"id": c.ID}, &single)
	assert.Nil(t, single.SingleClient)
}

func TestRelationRoundTrip(t *testing.T) {
	schema := newTestSchema(t)

	c := createClient(t, schema, "Ann", "ann@x.com")
	p := createProfile(t, schema, "hi", c.ID)

	var profile struct {
		SingleProfile *profileView `json:"singleProfile"`
	}
	mustDo(t, schema, singleProfileOp, map[string]interface{}{"id": p.ID}, &profile)
	require.NotNil(t, profile.SingleProfile)
	require.NotNil(t, profile.SingleProfile.Client)
	assert.Equal(t, c.ID, profile.SingleProfile.Client.ID)
	assert.Equal(t, "Ann", profile.SingleProfile.Client.Name)

	var single struct {
		SingleClient *clientView `json:"singleClient"`
	}
	mustDo(t, schema, singleClientOp, map[string]interface{}{"id": c.ID}, &single)
	require.NotNil(t, single.SingleClient)
	require.Len(t, single.SingleClient.Profile, 1)
	assert.Equal(t, p.ID, single.SingleClient.Profile[0].ID)
}

func TestClientWithoutProfile(t *testing.T) {
	schema := newTestSchema(t)
	c := createClient(t, schema, "Bob", "bob@x.com")

	var single struct {
		SingleClient *clientView `json:"singleClient"`
	}
	mustDo(t, schema, singleClientOp, map[string]interface{}{"id": c.ID}, &single)
	require.NotNil(t, single.SingleClient)
	assert.Empty(t, single.SingleClient.Profile)
}

func TestManyClientsGrows(t *testing.T) {
	schema := newTestSchema(t)

	count := func() int {
		var out struct {
			ManyClients []clientView `json:"manyClients"`
		}
		mustDo(t, schema, `{ manyClients { id } }`, nil, &out)
		return len(out.ManyClients)
	}

	assert.Equal(t, 0, count())
	for i := 1; i <= 3; i++ {
		createClient(t, schema, "Ann", "ann@x.com")
		assert.Equal(t, i, count())
	}
}

func TestManyProfiles(t *testing.T) {
	schema := newTestSchema(t)

	ann := createClient(t, schema, "Ann", "ann@x.com")
	bob := createClient(t, schema, "Bob", "bob@x.com")
	createProfile(t, schema, "hi", ann.ID)
	createProfile(t, schema, "yo", bob.ID)

	var out struct {
		ManyProfiles []profileView `json:"manyProfiles"`
	}
	mustDo(t, schema, `{ manyProfiles { id bio client { id } } }`, nil, &out)
	require.Len(t, out.ManyProfiles, 2)
	owners := map[string]string{}
	for _, p := range out.ManyProfiles {
		require.NotNil(t, p.Client)
		owners[p.Bio] = p.Client.ID
	}
	assert.Equal(t, map[string]string{"hi": ann.ID, "yo": bob.ID}, owners)
}

func TestSingleLookupsMissing(t *testing.T) {
	schema := newTestSchema(t)

	res := do(t, schema, `{ singleClient(id: "nope") { id } singleProfile(id: "nope") { id } }`, nil)
	require.Empty(t, res.Errors)
	assert.Equal(t, map[string]interface{}{"singleClient": nil, "singleProfile": nil}, res.Data)
}

func TestErrors(t *testing.T) {
	schema := newTestSchema(t)
	c := createClient(t, schema, "Ann", "ann@x.com")
	createProfile(t, schema, "hi", c.ID)

	tests := []struct {
		name   string
		query  string
		vars   map[string]interface{}
		code   int32
		status string
	}{
		{
			name:   "delete unknown client",
			query:  deleteClientOp,
			vars:   map[string]interface{}{"id": "nope"},
			code:   404,
			status: "Not Found",
		},
		{
			name:   "profile for unknown client",
			query:  createProfileOp,
			vars:   map[string]interface{}{"bio": "hi", "clientID": "nope"},
			code:   404,
			status: "Not Found",
		},
		{
			name:   "second profile for client",
			query:  createProfileOp,
			vars:   map[string]interface{}{"bio": "again", "clientID": c.ID},
			code:   409,
			status: "Conflict",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := do(t, schema, tt.query, tt.vars)
			require.Len(t, res.Errors, 1)
			ext := res.Errors[0].Extensions
			require.NotNil(t, ext)
			assert.EqualValues(t, tt.code, ext["code"])
			assert.Equal(t, tt.status, ext["status"])
		})
	}

	res := do(t, schema, deleteClientOp, map[string]interface{}{"id": "nope"})
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Message, "client nope not found")
}

func TestMissingArgument(t *testing.T) {
	schema := newTestSchema(t)

	res := do(t, schema, `mutation { createClient(name: "Ann") { id } }`, nil)
	require.NotEmpty(t, res.Errors)
	assert.Nil(t, res.Data)

	var out struct {
		ManyClients []clientView `json:"manyClients"`
	}
	mustDo(t, schema, `{ manyClients { id } }`, nil, &out)
	assert.Empty(t, out.ManyClients)
}

func TestAPIErrorCodes(t *testing.T) {
	err := apiError("op", assert.AnError)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, int32(500), e.Code())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, "clientgraph.op", e.Extensions()["id"])
}
