package window

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-framework/common"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestDefaultsMatchClassFramework(t *testing.T) {
	w := newEngineWindow()
	assert.Equal(t, "Class Framework", w.title)
	assert.Equal(t, 750, w.Width())
	assert.Equal(t, 750, w.Height())
	assert.Equal(t, ClientAPIOpenGL, w.ClientAPI())
	assert.Equal(t, 10*time.Millisecond, w.pollInterval)

	w = newEngineWindow(WithTitle("x"), WithWidth(300), WithHeight(200), WithClientAPI(ClientAPINone))
	assert.Equal(t, 300, w.Width())
	assert.Equal(t, ClientAPINone, w.ClientAPI())
}

func TestKeyRepeatIsDropped(t *testing.T) {
	w := newEngineWindow()
	var down, up []uint32
	w.SetKeyDownCallback(func(k uint32) { down = append(down, k) })
	w.SetKeyUpCallback(func(k uint32) { up = append(up, k) })

	w.keyEvent(common.Key3, true, false)
	w.keyEvent(common.Key3, true, true)
	w.keyEvent(common.Key3, false, false)

	assert.Equal(t, []uint32{common.Key3}, down)
	assert.Equal(t, []uint32{common.Key3}, up)
}

func TestResizeEventUpdatesSize(t *testing.T) {
	w := newEngineWindow()
	var got [2]int
	w.SetResizeCallback(func(width, height int) { got = [2]int{width, height} })
	w.resizeEvent(1024, 0)
	assert.Equal(t, [2]int{1024, 0}, got)
	assert.Equal(t, 1024, w.Width())
	assert.Equal(t, 0, w.Height())
}

func TestMouseButtonMapping(t *testing.T) {
	b, ok := mouseButton(glfw.MouseButtonRight)
	assert.True(t, ok)
	assert.Equal(t, common.MouseButtonRight, b)
	_, ok = mouseButton(glfw.MouseButton4)
	assert.False(t, ok)
}

func TestUninitializedWindow(t *testing.T) {
	w := newEngineWindow()
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
	w.SwapBuffers()
	w.RequestClose()
}
