package display

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielgatis/go-emulation"
	"github.com/danielgatis/go-emulation/screen"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/text/encoding/unicode"
)

func newSimulation(t *testing.T, columns, lines int) tcell.SimulationScreen {
	t.Helper()

	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(columns, lines)
	return s
}

func newTCellEmulation(t *testing.T, s tcell.Screen, opts ...emulation.Option) (*TCell, *emulation.Emulation) {
	t.Helper()

	d := NewTCell(s)
	opts = append([]emulation.Option{
		emulation.WithEncoding(unicode.UTF8),
		emulation.WithClipboard(emulation.NoopClipboard{}),
		emulation.WithRefreshIntervals(time.Hour, time.Hour),
	}, opts...)
	em, err := emulation.New(d, opts...)
	if err != nil {
		t.Fatalf("new emulation: %v", err)
	}
	t.Cleanup(func() { em.Close() })
	em.SetConnected(true)
	return d, em
}

func readScreenLine(s tcell.Screen, x, y, width int) string {
	runes := make([]rune, 0, width)
	for i := 0; i < width; i++ {
		r, _, _, _ := s.GetContent(x+i, y)
		runes = append(runes, r)
	}
	return string(runes)
}

func TestTCellGeometry(t *testing.T) {
	s := newSimulation(t, 30, 8)
	d := NewTCell(s)

	if d.Lines() != 8 || d.Columns() != 30 {
		t.Errorf("expected 30x8, got %dx%d", d.Columns(), d.Lines())
	}
}

func TestTCellDrawsSnapshot(t *testing.T) {
	s := newSimulation(t, 20, 4)
	_, em := newTCellEmulation(t, s)

	em.WriteString("\x1b[1mbold\x1b[0m text")
	em.Flush()

	if got := readScreenLine(s, 0, 0, 9); got != "bold text" {
		t.Errorf("expected 'bold text', got %q", got)
	}
	_, _, style, _ := s.GetContent(0, 0)
	if _, _, attrs := style.Decompose(); attrs&tcell.AttrBold == 0 {
		t.Error("expected bold attribute")
	}
	_, _, style, _ = s.GetContent(5, 0)
	if _, _, attrs := style.Decompose(); attrs&tcell.AttrBold != 0 {
		t.Error("expected plain attribute after reset")
	}
}

func TestTCellKeyPress(t *testing.T) {
	s := newSimulation(t, 20, 4)
	out := &recordingWriter{}
	d, em := newTCellEmulation(t, s, emulation.WithOutput(out))
	em.SetListenToKeyPress(true)

	d.HandleEvent(em, tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	d.HandleEvent(em, tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))

	if got := string(out.data); got != "x\r" {
		t.Errorf("expected 'x\\r', got %q", got)
	}
}

func TestTCellResize(t *testing.T) {
	s := newSimulation(t, 20, 4)
	d, em := newTCellEmulation(t, s)

	d.HandleEvent(em, tcell.NewEventResize(30, 6))

	if columns, lines := em.ImageSize(); columns != 30 || lines != 6 {
		t.Errorf("expected 30x6, got %dx%d", columns, lines)
	}
}

func TestTCellMouseSelection(t *testing.T) {
	s := newSimulation(t, 20, 4)
	d, em := newTCellEmulation(t, s)

	em.WriteString("hello world")
	em.Flush()

	d.HandleEvent(em, tcell.NewEventMouse(6, 0, tcell.Button1, tcell.ModNone))
	d.HandleEvent(em, tcell.NewEventMouse(10, 0, tcell.Button1, tcell.ModNone))

	if !em.TestIsSelected(8, 0) {
		t.Error("expected dragged cell to be selected")
	}

	d.HandleEvent(em, tcell.NewEventMouse(10, 0, tcell.ButtonNone, tcell.ModNone))

	if got := d.SelectedText(); got != "world" {
		t.Errorf("expected 'world', got %q", got)
	}
}

func TestTCellMouseWheel(t *testing.T) {
	s := newSimulation(t, 10, 2)
	d, em := newTCellEmulation(t, s)
	em.SetHistory(screen.FixedHistory(10))

	em.WriteString("1\r\n2\r\n3\r\n4\r\n5\r\n6")
	em.Flush()

	if cursor, lines := d.ScrollIndicator(); cursor != 4 || lines != 4 {
		t.Fatalf("expected indicator (4, 4), got (%d, %d)", cursor, lines)
	}

	d.HandleEvent(em, tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone))
	em.Flush()

	if cursor, _ := d.ScrollIndicator(); cursor != 1 {
		t.Errorf("expected cursor 1 after wheel up, got %d", cursor)
	}
	if got := readScreenLine(s, 0, 0, 1); got != "2" {
		t.Errorf("expected '2' on top row, got %q", got)
	}

	d.HandleEvent(em, tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	em.Flush()

	if cursor, _ := d.ScrollIndicator(); cursor != 4 {
		t.Errorf("expected cursor 4 after wheel down, got %d", cursor)
	}
}

func TestTCellRunStopsOnCancel(t *testing.T) {
	s := newSimulation(t, 10, 2)
	d, em := newTCellEmulation(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx, em) }()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("expected Run to return after cancel")
	}
}

type recordingWriter struct {
	data []byte
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}
