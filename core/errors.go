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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidEnrichment indicates an Enrichment failed validation.
	ErrInvalidEnrichment = errors.New("invalid enrichment")

	// ErrInvalidPublication indicates a PublicationEntry failed validation.
	ErrInvalidPublication = errors.New("invalid publication entry")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrNegativeIndex indicates a chunk index below zero.
	ErrNegativeIndex = errors.New("chunk index cannot be negative")

	// ErrSpanMismatch indicates a span whose length disagrees with the text.
	ErrSpanMismatch = errors.New("span does not match text length")

	// ErrMissingSection indicates a required enrichment section is empty.
	ErrMissingSection = errors.New("required enrichment section missing")
)
