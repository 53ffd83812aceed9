package output

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const (
	subscriberBuffer = 64              // 每个订阅者缓存的帧数，写满后丢弃新帧
	writeTimeout     = 5 * time.Second // 单条消息的写超时
)

// Message websocket推送的消息
// 说明：连接建立后先发送一条meta消息，之后每步发送一条frame消息
type Message struct {
	Type  string `json:"type"` // meta或frame
	Meta  *Meta  `json:"meta,omitempty"`
	Frame *Frame `json:"frame,omitempty"`
}

type subscriber struct {
	frames chan *Frame
}

// StreamRecorder 实时推送
// 功能：通过websocket把每步的帧推送给外部渲染器
// 说明：推送不阻塞仿真，订阅者处理过慢时丢弃帧
type StreamRecorder struct {
	meta Meta

	mtx         sync.Mutex
	subscribers map[*subscriber]struct{}
	closed      bool

	server *http.Server
}

// NewStreamRecorder 创建实时推送
// 参数：meta-走廊描述，每个新连接首先收到该描述
func NewStreamRecorder(meta Meta) *StreamRecorder {
	return &StreamRecorder{
		meta:        meta,
		subscribers: make(map[*subscriber]struct{}),
	}
}

// Serve 在addr上监听websocket连接
// 返回：实际监听的地址（addr端口为0时由系统分配）
func (s *StreamRecorder) Serve(addr string) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s.server = &http.Server{Handler: s}
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("websocket server: %v", err)
		}
	}()
	log.Infof("stream frames on ws://%v", ln.Addr())
	return ln.Addr(), nil
}

// ServeHTTP 处理一个订阅连接
func (s *StreamRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.Warnf("websocket accept: %v", err)
		return
	}
	defer c.CloseNow()
	// 只推送不接收，CloseRead在对端关闭时取消ctx
	ctx := c.CloseRead(r.Context())

	sub := &subscriber{frames: make(chan *Frame, subscriberBuffer)}
	if !s.subscribe(sub) {
		c.Close(websocket.StatusGoingAway, "recorder closed")
		return
	}
	defer s.unsubscribe(sub)

	if err := s.write(ctx, c, Message{Type: "meta", Meta: &s.meta}); err != nil {
		log.Debugf("websocket write meta: %v", err)
		return
	}
	for {
		select {
		case frame, ok := <-sub.frames:
			if !ok {
				c.Close(websocket.StatusNormalClosure, "simulation end")
				return
			}
			if err := s.write(ctx, c, Message{Type: "frame", Frame: frame}); err != nil {
				log.Debugf("websocket write frame %d: %v", frame.Step, err)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *StreamRecorder) write(ctx context.Context, c *websocket.Conn, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, c, msg)
}

func (s *StreamRecorder) subscribe(sub *subscriber) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.closed {
		return false
	}
	s.subscribers[sub] = struct{}{}
	return true
}

func (s *StreamRecorder) unsubscribe(sub *subscriber) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if _, ok := s.subscribers[sub]; ok {
		delete(s.subscribers, sub)
		close(sub.frames)
	}
}

// Subscribers 当前连接数
func (s *StreamRecorder) Subscribers() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return len(s.subscribers)
}

// Record 将帧推送给所有订阅者
func (s *StreamRecorder) Record(frame *Frame) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	for sub := range s.subscribers {
		select {
		case sub.frames <- frame:
		default:
			log.Warnf("drop frame %d for slow subscriber", frame.Step)
		}
	}
	return nil
}

// Close 通知所有订阅者仿真结束并关闭服务
func (s *StreamRecorder) Close() error {
	s.mtx.Lock()
	s.closed = true
	for sub := range s.subscribers {
		delete(s.subscribers, sub)
		close(sub.frames)
	}
	s.mtx.Unlock()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
