package output

import (
	"errors"
	"sync"
)

// Recorder 每步输出的接收方
type Recorder interface {
	// Record 记录一帧，frame在调用后不会再被修改
	Record(frame *Frame) error
	// Close 刷新缓冲并释放资源
	Close() error
}

// Recorders 将输出分发给多个接收方
type Recorders []Recorder

// Record 依次写入所有接收方，任一接收方失败不影响其他接收方
func (rs Recorders) Record(frame *Frame) error {
	var errs []error
	for _, r := range rs {
		if err := r.Record(frame); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (rs Recorders) Close() error {
	var errs []error
	for _, r := range rs {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MemoryRecorder 将帧保存在内存中，用于离线分析与测试
type MemoryRecorder struct {
	mtx    sync.Mutex
	frames []*Frame
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{frames: make([]*Frame, 0)}
}

func (m *MemoryRecorder) Record(frame *Frame) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.frames = append(m.frames, frame)
	return nil
}

func (m *MemoryRecorder) Close() error {
	return nil
}

// Frames 已记录的帧
func (m *MemoryRecorder) Frames() []*Frame {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return append([]*Frame(nil), m.frames...)
}
