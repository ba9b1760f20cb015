package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/synaptica-ai/twosides-bridge/pkg/common/logger"
)

// SeedGroupOffsets commits the current end offset of topic for every
// partition groupID has never committed. A reader joining the group later
// resumes from there, so anything published after this call returns is
// delivered no matter how long the group join takes. A missing topic is
// created with broker defaults.
func SeedGroupOffsets(ctx context.Context, brokers []string, topic, groupID string) error {
	client := &kafka.Client{Addr: kafka.TCP(brokers...), Timeout: 10 * time.Second}

	partitions, err := topicPartitions(ctx, client, topic)
	if err != nil {
		return err
	}

	fetched, err := client.OffsetFetch(ctx, &kafka.OffsetFetchRequest{
		GroupID: groupID,
		Topics:  map[string][]int{topic: partitions},
	})
	if err != nil {
		return fmt.Errorf("fetching offsets of %s: %w", groupID, err)
	}
	if fetched.Error != nil {
		return fmt.Errorf("fetching offsets of %s: %w", groupID, fetched.Error)
	}
	unset, err := uncommitted(fetched.Topics[topic])
	if err != nil {
		return fmt.Errorf("fetching offsets of %s: %w", groupID, err)
	}
	if len(unset) == 0 {
		return nil
	}

	requests := make([]kafka.OffsetRequest, 0, len(unset))
	for _, p := range unset {
		requests = append(requests, kafka.LastOffsetOf(p))
	}
	listed, err := client.ListOffsets(ctx, &kafka.ListOffsetsRequest{
		Topics: map[string][]kafka.OffsetRequest{topic: requests},
	})
	if err != nil {
		return fmt.Errorf("listing offsets of %s: %w", topic, err)
	}
	commits, err := endOffsets(listed.Topics[topic])
	if err != nil {
		return fmt.Errorf("listing offsets of %s: %w", topic, err)
	}

	committed, err := client.OffsetCommit(ctx, &kafka.OffsetCommitRequest{
		GroupID:      groupID,
		GenerationID: -1,
		Topics:       map[string][]kafka.OffsetCommit{topic: commits},
	})
	if err != nil {
		return fmt.Errorf("seeding offsets of %s: %w", groupID, err)
	}
	for _, p := range committed.Topics[topic] {
		if p.Error != nil {
			return fmt.Errorf("seeding offsets of %s partition %d: %w", groupID, p.Partition, p.Error)
		}
	}

	logger.Log.WithFields(map[string]interface{}{
		"topic":      topic,
		"group":      groupID,
		"partitions": len(commits),
	}).Debug("Consumer group offsets seeded")
	return nil
}

func topicPartitions(ctx context.Context, client *kafka.Client, topic string) ([]int, error) {
	for attempt := 0; attempt < 2; attempt++ {
		meta, err := client.Metadata(ctx, &kafka.MetadataRequest{Topics: []string{topic}})
		if err != nil {
			return nil, fmt.Errorf("reading metadata of %s: %w", topic, err)
		}
		if ids := partitionIDs(meta.Topics, topic); len(ids) > 0 {
			return ids, nil
		}
		if attempt > 0 {
			break
		}
		if err := createTopic(ctx, client, topic); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("topic %s has no partitions", topic)
}

func createTopic(ctx context.Context, client *kafka.Client, topic string) error {
	resp, err := client.CreateTopics(ctx, &kafka.CreateTopicsRequest{
		Topics: []kafka.TopicConfig{{Topic: topic, NumPartitions: -1, ReplicationFactor: -1}},
	})
	if err != nil {
		return fmt.Errorf("creating topic %s: %w", topic, err)
	}
	if err := resp.Errors[topic]; err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return fmt.Errorf("creating topic %s: %w", topic, err)
	}
	return nil
}

func partitionIDs(topics []kafka.Topic, topic string) []int {
	for _, t := range topics {
		if t.Name != topic || t.Error != nil {
			continue
		}
		ids := make([]int, 0, len(t.Partitions))
		for _, p := range t.Partitions {
			ids = append(ids, p.ID)
		}
		return ids
	}
	return nil
}

// uncommitted returns the partitions without a committed offset.
func uncommitted(partitions []kafka.OffsetFetchPartition) ([]int, error) {
	var out []int
	for _, p := range partitions {
		if p.Error != nil {
			return nil, fmt.Errorf("partition %d: %w", p.Partition, p.Error)
		}
		if p.CommittedOffset < 0 {
			out = append(out, p.Partition)
		}
	}
	return out, nil
}

func endOffsets(partitions []kafka.PartitionOffsets) ([]kafka.OffsetCommit, error) {
	out := make([]kafka.OffsetCommit, 0, len(partitions))
	for _, p := range partitions {
		if p.Error != nil {
			return nil, fmt.Errorf("partition %d: %w", p.Partition, p.Error)
		}
		out = append(out, kafka.OffsetCommit{Partition: p.Partition, Offset: p.LastOffset})
	}
	return out, nil
}
