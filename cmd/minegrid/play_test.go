package main

import (
	"bytes"
	"context"
	"io"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minegrid/internal/mines"
	"github.com/vancomm/minegrid/internal/records"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	m.Run()
}

func TestPlayRecordsFinishedRounds(t *testing.T) {
	book, err := records.Open(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	defer book.Close()

	var out bytes.Buffer
	params := mines.Params{Size: 3, Density: 0}
	p, err := newPlayer(&out, params, rand.New(rand.NewPCG(1, 2)), book)
	require.NoError(t, err)

	in := strings.NewReader("o 1 1\nbogus\n\no 9 9\nn\no 0 0\ng\n")
	require.NoError(t, p.run(context.Background(), in))

	text := out.String()
	assert.Contains(t, text, "round 0  won")
	assert.Contains(t, text, "error: unknown command")
	assert.Contains(t, text, "error: invalid coordinate")
	assert.Contains(t, text, "round 1  won")

	entries, err := book.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	var rounds []int
	for _, e := range entries {
		rounds = append(rounds, e.Round)
		assert.True(t, e.Won)
		assert.Equal(t, params, e.Params)
	}
	assert.ElementsMatch(t, []int{0, 1}, rounds)
}

func TestPlayWithoutBook(t *testing.T) {
	var out bytes.Buffer
	p, err := newPlayer(&out, mines.Params{Size: 2, Density: 0}, rand.New(rand.NewPCG(1, 2)), nil)
	require.NoError(t, err)

	require.NoError(t, p.run(context.Background(), strings.NewReader("f 0 0\no 1 1\n")))
	assert.Contains(t, out.String(), "flags left -1")
	assert.Contains(t, out.String(), "won")
}

func TestPlayStopsOnCancel(t *testing.T) {
	var out bytes.Buffer
	p, err := newPlayer(&out, mines.Params{Size: 2, Density: 0}, rand.New(rand.NewPCG(1, 2)), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pr, pw := io.Pipe()
	defer pw.Close()
	assert.NoError(t, p.run(ctx, pr))
}

// endless keeps the scanner busy with refresh commands.
type endless struct{}

func (endless) Read(b []byte) (int, error) {
	n := 0
	for n+1 < len(b) {
		b[n], b[n+1] = 'g', '\n'
		n += 2
	}
	return n, nil
}

func TestPlayStopsOnCancelMidStream(t *testing.T) {
	for range 50 {
		p, err := newPlayer(io.Discard, mines.Params{Size: 4, Density: 0.125}, rand.New(rand.NewPCG(1, 2)), nil)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- p.run(ctx, endless{}) }()

		time.Sleep(time.Millisecond)
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("run kept going after cancel")
		}
	}
}
