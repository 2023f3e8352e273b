package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/session"
)

type testServer struct {
	*httptest.Server
	registry *session.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	seed := uint64(1)
	registry := session.NewRegistry(nil, session.Options{Seed: &seed})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewGameHandler(logger, registry, config.NewWebSocket(nil))

	router := mux.NewRouter()
	handler.Register(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	t.Cleanup(registry.Close)
	return &testServer{srv, registry}
}

func (s *testServer) do(t *testing.T, method, path string, query url.Values) *http.Response {
	t.Helper()
	u := s.URL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequest(method, u, nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))
	return v
}

func (s *testServer) newGame(t *testing.T, difficulty string) *GameSessionDTO {
	t.Helper()
	query := url.Values{}
	if difficulty != "" {
		query.Set("difficulty", difficulty)
	}
	res := s.do(t, http.MethodPost, "/game", query)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	return decode[*GameSessionDTO](t, res)
}

// cells finds the first mine and the first safe cell of a session.
func (s *testServer) cells(t *testing.T, id string) (mine, safe mines.Cell) {
	t.Helper()
	sess, err := s.registry.Get(id)
	require.NoError(t, err)
	_, err = sess.Do(func(g *mines.Game) error {
		var foundMine, foundSafe bool
		for c := range g.Grid().Cells() {
			if c.IsMine && !foundMine {
				mine, foundMine = c, true
			}
			if !c.IsMine && !foundSafe {
				safe, foundSafe = c, true
			}
		}
		return nil
	})
	require.NoError(t, err)
	return
}

func move(m string, c mines.Cell) url.Values {
	return url.Values{
		"move": {m},
		"row":  {fmt.Sprint(c.Row)},
		"col":  {fmt.Sprint(c.Col)},
	}
}

func TestStatus(t *testing.T) {
	srv := newTestServer(t)
	res := srv.do(t, http.MethodGet, "/status", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", decode[map[string]string](t, res)["status"])
}

func TestDifficulties(t *testing.T) {
	srv := newTestServer(t)
	res := srv.do(t, http.MethodGet, "/difficulties", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, mines.Difficulties(), decode[[]mines.Difficulty](t, res))
}

func TestNewGame(t *testing.T) {
	srv := newTestServer(t)

	game := srv.newGame(t, "")
	assert.Len(t, game.GameSessionId, 36)
	assert.Equal(t, "easy", game.Difficulty)
	assert.Equal(t, mines.Ready, game.Status)
	assert.Equal(t, 10, game.MinesLeft)
	require.Len(t, game.Grid, 81)
	for _, state := range game.Grid {
		assert.Equal(t, mines.Hidden, state)
	}

	hard := srv.newGame(t, "Hard")
	assert.Equal(t, 16, hard.Rows)
	assert.Equal(t, 30, hard.Cols)
	assert.Equal(t, 99, hard.Mines)
	assert.Equal(t, 2, srv.registry.Len())

	res := srv.do(t, http.MethodPost, "/game", url.Values{"difficulty": {"expert"}})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, decode[map[string]string](t, res)["error"], "expert")
}

func TestFetch(t *testing.T) {
	srv := newTestServer(t)
	game := srv.newGame(t, "medium")

	res := srv.do(t, http.MethodGet, "/game/"+game.GameSessionId, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, game, decode[*GameSessionDTO](t, res))

	res = srv.do(t, http.MethodGet, "/game/nope", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestMakeAMove(t *testing.T) {
	srv := newTestServer(t)
	game := srv.newGame(t, "")
	path := "/game/" + game.GameSessionId + "/move"
	mine, safe := srv.cells(t, game.GameSessionId)

	res := srv.do(t, http.MethodPost, path, move("flag", mine))
	require.Equal(t, http.StatusOK, res.StatusCode)
	got := decode[*GameSessionDTO](t, res)
	assert.Equal(t, mines.Playing, got.Status)
	assert.Equal(t, 9, got.MinesLeft)
	assert.Equal(t, mines.Flagged, got.Grid[mine.Row*9+mine.Col])

	res = srv.do(t, http.MethodPost, path, move("open", safe))
	require.Equal(t, http.StatusOK, res.StatusCode)
	got = decode[*GameSessionDTO](t, res)
	assert.Equal(t, mines.CellState(safe.NeighborMines), got.Grid[safe.Row*9+safe.Col])

	res = srv.do(t, http.MethodPost, path, move("chord", safe))
	require.Equal(t, http.StatusOK, res.StatusCode)

	// flagged cells cannot be opened
	res = srv.do(t, http.MethodPost, path, move("open", mine))
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.False(t, decode[*GameSessionDTO](t, res).Dead)

	res = srv.do(t, http.MethodPost, path, move("flag", mine))
	require.Equal(t, http.StatusOK, res.StatusCode)
	res = srv.do(t, http.MethodPost, path, move("open", mine))
	require.Equal(t, http.StatusOK, res.StatusCode)
	got = decode[*GameSessionDTO](t, res)
	assert.True(t, got.Dead)
	assert.Equal(t, mines.Lost, got.Status)
	assert.Equal(t, mines.ExplodedMine, got.Grid[mine.Row*9+mine.Col])
}

func TestMakeAMoveErrors(t *testing.T) {
	srv := newTestServer(t)
	game := srv.newGame(t, "")
	path := "/game/" + game.GameSessionId + "/move"

	tests := []struct {
		name   string
		query  url.Values
		status int
	}{
		{"bad move", url.Values{"move": {"dig"}, "row": {"0"}, "col": {"0"}}, http.StatusBadRequest},
		{"missing row", url.Values{"move": {"open"}, "col": {"0"}}, http.StatusBadRequest},
		{"not a number", url.Values{"move": {"open"}, "row": {"a"}, "col": {"0"}}, http.StatusBadRequest},
		{"out of bounds", url.Values{"move": {"open"}, "row": {"9"}, "col": {"0"}}, http.StatusBadRequest},
		{"negative", url.Values{"move": {"flag"}, "row": {"0"}, "col": {"-1"}}, http.StatusBadRequest},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := srv.do(t, http.MethodPost, path, test.query)
			assert.Equal(t, test.status, res.StatusCode)
			assert.NotEmpty(t, decode[map[string]string](t, res)["error"])
		})
	}

	res := srv.do(t, http.MethodPost, "/game/nope/move", move("open", mines.Cell{}))
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = srv.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)

	res = srv.do(t, http.MethodGet, "/game/"+game.GameSessionId, nil)
	assert.Equal(t, mines.Ready, decode[*GameSessionDTO](t, res).Status)
}

func TestFlagModeClick(t *testing.T) {
	srv := newTestServer(t)
	game := srv.newGame(t, "")
	base := "/game/" + game.GameSessionId
	mine, _ := srv.cells(t, game.GameSessionId)

	res := srv.do(t, http.MethodPost, base+"/flagmode", url.Values{"on": {"true"}})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, decode[*GameSessionDTO](t, res).FlagMode)

	res = srv.do(t, http.MethodPost, base+"/move", move("click", mine))
	require.Equal(t, http.StatusOK, res.StatusCode)
	got := decode[*GameSessionDTO](t, res)
	assert.Equal(t, mines.Flagged, got.Grid[mine.Row*9+mine.Col])
	assert.Equal(t, mines.Playing, got.Status)

	res = srv.do(t, http.MethodPost, base+"/flagmode", url.Values{"on": {"maybe"}})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestResetAndForfeit(t *testing.T) {
	srv := newTestServer(t)
	game := srv.newGame(t, "")
	base := "/game/" + game.GameSessionId

	res := srv.do(t, http.MethodPost, base+"/forfeit", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	got := decode[*GameSessionDTO](t, res)
	assert.True(t, got.Dead)
	assert.Equal(t, mines.Lost, got.Status)

	res = srv.do(t, http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	got = decode[*GameSessionDTO](t, res)
	assert.Equal(t, mines.Ready, got.Status)
	assert.Equal(t, "easy", got.Difficulty)
	assert.Zero(t, got.Elapsed)

	res = srv.do(t, http.MethodPost, base+"/reset", url.Values{"difficulty": {"medium"}})
	require.Equal(t, http.StatusOK, res.StatusCode)
	got = decode[*GameSessionDTO](t, res)
	assert.Equal(t, "medium", got.Difficulty)
	assert.Len(t, got.Grid, 256)

	res = srv.do(t, http.MethodPost, base+"/reset", url.Values{"difficulty": {"expert"}})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestDelete(t *testing.T) {
	srv := newTestServer(t)
	game := srv.newGame(t, "")
	path := "/game/" + game.GameSessionId

	res := srv.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Zero(t, srv.registry.Len())

	res = srv.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	res = srv.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: x", session.ErrNotFound), http.StatusNotFound},
		{mines.ErrOutOfBounds, http.StatusBadRequest},
		{mines.InvalidConfigurationError{Rows: 1, Cols: 1, Mines: 1}, http.StatusBadRequest},
		{session.ErrBadArguments, http.StatusBadRequest},
		{ErrBadMove, http.StatusBadRequest},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, test := range tests {
		assert.Equal(t, test.status, statusOf(test.err), test.err.Error())
	}
}

func TestParseGameMove(t *testing.T) {
	for _, m := range []GameMove{Open, Flag, Chord, Click} {
		got, err := ParseGameMove(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseGameMove("CHORD")
	require.NoError(t, err)
	assert.Equal(t, Chord, got)

	_, err = ParseGameMove("")
	assert.ErrorIs(t, err, ErrBadMove)
	assert.Equal(t, "move must be one of 'open', 'flag', 'chord', 'click'", ErrBadMove.Error())
}
