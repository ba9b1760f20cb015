package kafka

import (
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionIDs(t *testing.T) {
	topics := []kafka.Topic{
		{Name: "other", Partitions: []kafka.Partition{{ID: 9}}},
		{Name: "twosides.responses", Partitions: []kafka.Partition{{ID: 0}, {ID: 1}, {ID: 2}}},
	}
	assert.Equal(t, []int{0, 1, 2}, partitionIDs(topics, "twosides.responses"))
	assert.Empty(t, partitionIDs(topics, "missing"))

	broken := []kafka.Topic{{Name: "t", Error: kafka.UnknownTopicOrPartition}}
	assert.Empty(t, partitionIDs(broken, "t"))
}

func TestUncommittedPicksPartitionsWithoutOffset(t *testing.T) {
	got, err := uncommitted([]kafka.OffsetFetchPartition{
		{Partition: 0, CommittedOffset: 42},
		{Partition: 1, CommittedOffset: -1},
		{Partition: 2, CommittedOffset: 0},
		{Partition: 3, CommittedOffset: -1},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, got)

	_, err = uncommitted([]kafka.OffsetFetchPartition{{Partition: 0, Error: errors.New("not coordinator")}})
	assert.Error(t, err)
}

func TestEndOffsetsCommitsLastOffset(t *testing.T) {
	got, err := endOffsets([]kafka.PartitionOffsets{
		{Partition: 1, FirstOffset: 3, LastOffset: 17},
		{Partition: 3, FirstOffset: 0, LastOffset: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, []kafka.OffsetCommit{
		{Partition: 1, Offset: 17},
		{Partition: 3, Offset: 0},
	}, got)

	_, err = endOffsets([]kafka.PartitionOffsets{{Partition: 0, Error: errors.New("leader moved")}})
	assert.Error(t, err)
}
