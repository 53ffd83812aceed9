package output_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/highway-merge-sim/output"
)

func TestStreamRecorderPushesMetaThenFrames(t *testing.T) {
	s := output.NewStreamRecorder(output.Meta{Job: "test", LaneCount: 8, TotalLength: 400})
	srv := httptest.NewServer(s)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer c.CloseNow()

	var msg output.Message
	require.NoError(t, wsjson.Read(ctx, c, &msg))
	assert.Equal(t, "meta", msg.Type)
	require.NotNil(t, msg.Meta)
	assert.Equal(t, 8, msg.Meta.LaneCount)

	// 订阅在发送meta之前完成
	assert.Eventually(t, func() bool { return s.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, s.Record(&output.Frame{Step: 3, Active: 2}))

	msg = output.Message{}
	require.NoError(t, wsjson.Read(ctx, c, &msg))
	assert.Equal(t, "frame", msg.Type)
	require.NotNil(t, msg.Frame)
	assert.Equal(t, int32(3), msg.Frame.Step)
	assert.Equal(t, 2, msg.Frame.Active)

	require.NoError(t, s.Close())
	_, _, err = c.Read(ctx)
	assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))
}

func TestStreamRecorderWithoutSubscribers(t *testing.T) {
	s := output.NewStreamRecorder(output.Meta{})
	assert.NoError(t, s.Record(&output.Frame{Step: 1}))
	assert.NoError(t, s.Close())
}
