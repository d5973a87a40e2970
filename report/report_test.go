package report

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macropad/hal"
	"macropad/kbd"
	"macropad/keys"
)

type sent struct {
	kind hal.ReportKind
	data []byte
}

type recHID struct {
	out []sent
	err error
}

func (h *recHID) WriteReport(kind hal.ReportKind, report []byte) error {
	if h.err != nil {
		return h.err
	}
	h.out = append(h.out, sent{kind, append([]byte(nil), report...)})
	return nil
}

func press(k keys.Code) kbd.KeyEvent   { return kbd.KeyEvent{Key: k, Pressed: true} }
func release(k keys.Code) kbd.KeyEvent { return kbd.KeyEvent{Key: k} }

func TestKeyboardReport(t *testing.T) {
	hid := &recHID{}
	w, err := NewWriter(hid)
	require.NoError(t, err)

	require.NoError(t, w.Send(1, []kbd.KeyEvent{press(keys.N7), press(keys.LShift)}))
	require.Len(t, hid.out, 1)
	assert.Equal(t, hal.ReportKeyboard, hid.out[0].kind)
	assert.Equal(t, []byte{0x02, 0, 0x24, 0, 0, 0, 0, 0}, hid.out[0].data)

	require.NoError(t, w.Send(2, []kbd.KeyEvent{press(keys.N8)}))
	assert.Equal(t, []byte{0x02, 0, 0x24, 0x25, 0, 0, 0, 0}, hid.out[1].data)

	require.NoError(t, w.Send(3, []kbd.KeyEvent{release(keys.N7), release(keys.LShift)}))
	assert.Equal(t, []byte{0, 0, 0, 0x25, 0, 0, 0, 0}, hid.out[2].data)
}

func TestUnchangedStateWritesNothing(t *testing.T) {
	hid := &recHID{}
	w, err := NewWriter(hid)
	require.NoError(t, err)

	require.NoError(t, w.Send(1, nil))
	require.NoError(t, w.Send(2, []kbd.KeyEvent{release(keys.A)}))
	assert.Empty(t, hid.out)

	require.NoError(t, w.Send(3, []kbd.KeyEvent{press(keys.A)}))
	require.NoError(t, w.Send(4, []kbd.KeyEvent{press(keys.A)}))
	assert.Len(t, hid.out, 1)
}

func TestConsumerTap(t *testing.T) {
	hid := &recHID{}
	w, err := NewWriter(hid)
	require.NoError(t, err)

	require.NoError(t, w.Send(1, []kbd.KeyEvent{press(keys.VolumeUp)}))
	require.NoError(t, w.Send(2, []kbd.KeyEvent{release(keys.VolumeUp)}))
	require.Len(t, hid.out, 2)
	assert.Equal(t, sent{hal.ReportConsumer, []byte{0xE9, 0x00}}, hid.out[0])
	assert.Equal(t, sent{hal.ReportConsumer, []byte{0x00, 0x00}}, hid.out[1])
}

func TestRollover(t *testing.T) {
	hid := &recHID{}
	w, err := NewWriter(hid)
	require.NoError(t, err)

	var evs []kbd.KeyEvent
	for _, k := range []keys.Code{keys.A, keys.B, keys.C, keys.D, keys.E, keys.F, keys.G} {
		evs = append(evs, press(k))
	}
	require.NoError(t, w.Send(1, evs))
	assert.Equal(t, 1, w.Dropped())
	assert.Equal(t, []byte{0, 0, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09}, hid.out[0].data)

	require.NoError(t, w.Send(2, []kbd.KeyEvent{release(keys.C), press(keys.G)}))
	assert.Equal(t, []byte{0, 0, 0x04, 0x05, 0x0A, 0x07, 0x08, 0x09}, hid.out[1].data)
}

func TestWriteErrorWraps(t *testing.T) {
	boom := errors.New("usb busy")
	w, err := NewWriter(&recHID{err: boom})
	require.NoError(t, err)
	assert.ErrorIs(t, w.Send(1, []kbd.KeyEvent{press(keys.A)}), boom)

	_, err = NewWriter(nil)
	assert.ErrorIs(t, err, ErrNoHID)
}
