package http

import (
	"context"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"gestion-personas/internal/personas/adapter/persistence/memory"
	"gestion-personas/internal/personas/domain/model"
	"gestion-personas/internal/personas/usecase"

	fastws "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeFeed_RequiresUpgrade(t *testing.T) {
	app := fiber.New()
	NewWebSocketHandler(&MockPersonasUC{}, nil).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/ws/v1/changes", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestChangeFeed_StreamsSnapshots(t *testing.T) {
	store := usecase.NewStore(memory.NewKVStorage(), nil, nil, usecase.DefaultStoreConfig())
	store.Load(context.Background())
	uc := usecase.NewPersonasUsecase(store, usecase.NewOperations(), nil, nil)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	NewWebSocketHandler(uc, nil).RegisterRoutes(app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() {
		_ = app.Shutdown()
		_ = store.Close(context.Background())
	})

	conn, _, err := fastws.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws/v1/changes", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var initial ChangeMessage
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Equal(t, "snapshot", initial.Type)
	assert.Empty(t, initial.Snapshot.Persons)

	person, err := uc.AddPerson(context.Background(), model.PersonDraft{Nombre: "Ana", Apellido: "Lopez"})
	require.NoError(t, err)

	var change ChangeMessage
	require.NoError(t, conn.ReadJSON(&change))
	assert.Equal(t, "change", change.Type)
	assert.Equal(t, []model.Collection{model.CollectionPersons}, change.Changed)
	require.Len(t, change.Snapshot.Persons, 1)
	assert.Equal(t, person.ID, change.Snapshot.Persons[0].ID)
	assert.Greater(t, change.Snapshot.Version, initial.Snapshot.Version)
}
