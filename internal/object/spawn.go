package object

import "github.com/tomz197/warthreads/internal/loop/config"

// SpawnThreshold returns the roll ceiling for the current progress.
// Every 25 resolved enemies raise the spawn chance by one in fifty.
func SpawnThreshold(hits, misses int64) int {
	return int((hits+misses)/config.SpawnProgressDiv) + config.SpawnBaseThreshold
}

// ShouldSpawn rolls once against SpawnThreshold.
func ShouldSpawn(rnd RandFunc, hits, misses int64) bool {
	if rnd == nil {
		rnd = DefaultRand
	}
	return rnd(config.SpawnRollRange) < SpawnThreshold(hits, misses)
}
