package idutil

import "github.com/bwmarrin/snowflake"

var defaultNode = MustNode(0)

func MustNode(machineID int64) *snowflake.Node {
	node, err := snowflake.NewNode(machineID)
	if err != nil {
		panic(err)
	}

	return node
}

// NextID generates a time-sortable int64 id.
func NextID() int64 {
	return defaultNode.Generate().Int64()
}
