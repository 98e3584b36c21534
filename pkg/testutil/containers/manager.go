//go:build integration

// Package containers starts the backing services integration tests run against.
// Containers are shared by every suite in a test binary; Ryuk removes them on exit.
package containers

import (
	"context"
	"sync"
)

type manager struct {
	pgOnce    sync.Once
	pg        *PostgresContainer
	pgErr     error
	redisOnce sync.Once
	rc        *RedisContainer
	redisErr  error
	kafkaOnce sync.Once
	kc        *KafkaContainer
	kafkaErr  error
}

var shared = &manager{}

func (m *manager) postgres() (*PostgresContainer, error) {
	m.pgOnce.Do(func() {
		m.pg, m.pgErr = newPostgresContainer(context.Background())
	})
	return m.pg, m.pgErr
}

func (m *manager) redis() (*RedisContainer, error) {
	m.redisOnce.Do(func() {
		m.rc, m.redisErr = newRedisContainer(context.Background())
	})
	return m.rc, m.redisErr
}

func (m *manager) kafka() (*KafkaContainer, error) {
	m.kafkaOnce.Do(func() {
		m.kc, m.kafkaErr = newKafkaContainer(context.Background())
	})
	return m.kc, m.kafkaErr
}
