package uuid

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// SnowNode 雪花算法id生成节点，同一个节点生成的id单调递增且不重复
type SnowNode struct {
	node *snowflake.Node
}

// NewNode 创建节点，nodeId取值0~1023，多实例部署时需要保证不同
func NewNode(nodeId int64) *SnowNode {
	node, err := snowflake.NewNode(nodeId)
	if err != nil {
		panic(err)
	}
	return &SnowNode{node: node}
}

func (s *SnowNode) GenSnowID() int64 {
	return s.node.Generate().Int64()
}

func (s *SnowNode) GenSnowStr() string {
	return s.node.Generate().String()
}

// GenUUID16 生成16位的随机串，用作requestId
func GenUUID16() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
