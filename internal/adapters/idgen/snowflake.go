package idgen

import (
	"MindProfile/internal/domain/repository"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Snowflake issues time-ordered ids for records, questions and users.
type Snowflake struct {
	node *snowflake.Node
}

var _ repository.IDGenerator = (*Snowflake)(nil)

func NewSnowflake(nodeID int64) (*Snowflake, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}
	return &Snowflake{node: node}, nil
}

func (s *Snowflake) NewID() string {
	return s.node.Generate().String()
}
