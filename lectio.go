// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package lectio

import (
	"io"
	"log/slog"

	"github.com/poiesic/lectio/ai"
	"github.com/poiesic/lectio/enrich"
	"github.com/poiesic/lectio/publish"
	"github.com/poiesic/lectio/storage"
	"github.com/poiesic/lectio/storage/badger"
)

// Library bundles the storage backend with the chunk and publication
// repositories that share it. It is the entry point for embedding lectio
// in another program.
type Library struct {
	backend   *badger.Backend
	chunkRepo storage.ChunkRepository
	pubRepo   storage.PublicationRepository
	logger    *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	inMemory bool
}

// WithInMemory opens the backend without touching disk. Intended for tests.
func WithInMemory() LibraryOption {
	return func(o *libraryOptions) {
		o.inMemory = true
	}
}

func OpenLibrary(filePath string, opts ...LibraryOption) (*Library, error) {
	options := &libraryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	return &Library{
		backend:   backend,
		chunkRepo: badger.NewChunkRepository(backend),
		pubRepo:   badger.NewPublicationRepository(backend),
		logger:    slog.Default(),
	}, nil
}

func (l *Library) Close() error {
	if err := l.chunkRepo.Close(); err != nil {
		l.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := l.pubRepo.Close(); err != nil {
		l.logger.Error("error closing publication repository", "err", err)
		return err
	}
	if err := l.backend.Close(); err != nil {
		l.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (l *Library) ChunkRepository() storage.ChunkRepository {
	return l.chunkRepo
}

func (l *Library) PublicationRepository() storage.PublicationRepository {
	return l.pubRepo
}

func (l *Library) NewEnricher(generator ai.Generator, config *enrich.Config, progress io.Writer) *enrich.Enricher {
	return enrich.NewEnricher(l.chunkRepo, generator, config, progress)
}

func (l *Library) NewVerifier(workers int) *enrich.Verifier {
	return enrich.NewVerifier(l.chunkRepo, workers)
}

func (l *Library) NewScheduler(publisher publish.Publisher, formatter *publish.Formatter, schedule publish.Schedule, opts ...publish.SchedulerOption) *publish.Scheduler {
	return publish.NewScheduler(l.chunkRepo, l.pubRepo, publisher, formatter, schedule, opts...)
}
