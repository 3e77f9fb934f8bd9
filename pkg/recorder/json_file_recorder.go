package recorder

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// JSON 文件记录器，每条消息一行，未配置kafka时用来保存事件
type JSONFileRecorder struct {
	Path string

	mu   sync.Mutex
	file *os.File
}

type record struct {
	Topic      string      `json:"topic"`
	Key        string      `json:"key,omitempty"`
	RecordedAt time.Time   `json:"recorded_at"`
	Value      interface{} `json:"value"`
}

func NewJSONFileRecorder(path string) (*JSONFileRecorder, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &JSONFileRecorder{Path: path, file: file}, nil
}

// Produce 与kafka生产者的签名一致，可以直接替换
func (r *JSONFileRecorder) Produce(_ context.Context, topic string, key []byte, msg interface{}) error {
	data, err := json.Marshal(record{Topic: topic, Key: string(key), RecordedAt: time.Now(), Value: msg})
	if err != nil {
		return err
	}
	data = append(data, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	_, err = r.file.Write(data)
	return err
}

func (r *JSONFileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}
