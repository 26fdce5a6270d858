package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the stored record types. Hand-maintained: the type set
// is small and changes rarely, so the serializers are written out instead of
// generated. Field order is part of the storage format; append new fields at
// the end and never reorder existing ones. Timestamps are stored as Unix
// microseconds in UTC.

var (
	// FingerprintMUS serializes Fingerprint values.
	FingerprintMUS = fingerprintMUS{}
	// ChunkMUS serializes Chunk values.
	ChunkMUS = chunkMUS{}
	// EnrichmentMUS serializes Enrichment values.
	EnrichmentMUS = enrichmentMUS{}
	// PublicationEntryMUS serializes PublicationEntry values.
	PublicationEntryMUS = publicationEntryMUS{}
	// ManifestMUS serializes Manifest values.
	ManifestMUS = manifestMUS{}
)

type fingerprintMUS struct{}

func (fingerprintMUS) Marshal(v Fingerprint, bs []byte) int {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (fingerprintMUS) Unmarshal(bs []byte) (Fingerprint, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return Fingerprint(v), n, err
}

func (fingerprintMUS) Size(v Fingerprint) int {
	return varint.Uint64.Size(uint64(v))
}

func (fingerprintMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type timeMUS struct{}

func (timeMUS) Marshal(v time.Time, bs []byte) int {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func (timeMUS) Unmarshal(bs []byte) (time.Time, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(v).UTC(), n, nil
}

func (timeMUS) Size(v time.Time) int {
	return varint.Int64.Size(v.UnixMicro())
}

func (timeMUS) Skip(bs []byte) (int, error) {
	return varint.Int64.Skip(bs)
}

type stringSliceMUS struct{}

func (stringSliceMUS) Marshal(v []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, s := range v {
		n += ord.String.Marshal(s, bs[n:])
	}
	return n
}

func (stringSliceMUS) Unmarshal(bs []byte) (v []string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	for i := 0; i < length; i++ {
		var s string
		var sn int
		s, sn, err = ord.String.Unmarshal(bs[n:])
		n += sn
		if err != nil {
			return nil, n, err
		}
		v = append(v, s)
	}
	return v, n, nil
}

func (stringSliceMUS) Size(v []string) (size int) {
	size = varint.Int.Size(len(v))
	for _, s := range v {
		size += ord.String.Size(s)
	}
	return size
}

func (stringSliceMUS) Skip(bs []byte) (n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return n, err
	}
	for i := 0; i < length; i++ {
		var sn int
		sn, err = ord.String.Skip(bs[n:])
		n += sn
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

var (
	timeSer        = timeMUS{}
	stringSliceSer = stringSliceMUS{}
	annotationSer  = annotationMUS{}
	parallelSer    = parallelAccountMUS{}
	relatedSer     = relatedPassageMUS{}
	vocabSer       = vocabEntryMUS{}
)

type annotationMUS struct{}

func (annotationMUS) Marshal(v Annotation, bs []byte) (n int) {
	n = ord.String.Marshal(v.Topic, bs)
	n += ord.String.Marshal(v.Explanation, bs[n:])
	n += ord.String.Marshal(v.Link, bs[n:])
	return n
}

func (annotationMUS) Unmarshal(bs []byte) (v Annotation, n int, err error) {
	v.Topic, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	var fn int
	v.Explanation, fn, err = ord.String.Unmarshal(bs[n:])
	n += fn
	if err != nil {
		return v, n, err
	}
	v.Link, fn, err = ord.String.Unmarshal(bs[n:])
	n += fn
	return v, n, err
}

func (annotationMUS) Size(v Annotation) int {
	return ord.String.Size(v.Topic) + ord.String.Size(v.Explanation) +
		ord.String.Size(v.Link)
}

func (annotationMUS) Skip(bs []byte) (n int, err error) {
	return skipStrings(bs, 3)
}

type parallelAccountMUS struct{}

func (parallelAccountMUS) Marshal(v ParallelAccount, bs []byte) (n int) {
	n = ord.String.Marshal(v.Author, bs)
	n += ord.String.Marshal(v.Work, bs[n:])
	n += ord.String.Marshal(v.Reference, bs[n:])
	n += ord.String.Marshal(v.Relevance, bs[n:])
	n += ord.String.Marshal(v.Link, bs[n:])
	return n
}

func (parallelAccountMUS) Unmarshal(bs []byte) (v ParallelAccount, n int, err error) {
	fields := []*string{&v.Author, &v.Work, &v.Reference, &v.Relevance, &v.Link}
	for _, f := range fields {
		var fn int
		*f, fn, err = ord.String.Unmarshal(bs[n:])
		n += fn
		if err != nil {
			return v, n, err
		}
	}
	return v, n, nil
}

func (parallelAccountMUS) Size(v ParallelAccount) int {
	return ord.String.Size(v.Author) + ord.String.Size(v.Work) +
		ord.String.Size(v.Reference) + ord.String.Size(v.Relevance) +
		ord.String.Size(v.Link)
}

func (parallelAccountMUS) Skip(bs []byte) (n int, err error) {
	return skipStrings(bs, 5)
}

type relatedPassageMUS struct{}

func (relatedPassageMUS) Marshal(v RelatedPassage, bs []byte) (n int) {
	n = varint.Int.Marshal(v.Book, bs)
	n += varint.Int.Marshal(v.Chapter, bs[n:])
	n += ord.String.Marshal(v.Summary, bs[n:])
	n += ord.String.Marshal(v.Connection, bs[n:])
	return n
}

func (relatedPassageMUS) Unmarshal(bs []byte) (v RelatedPassage, n int, err error) {
	v.Book, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	var fn int
	v.Chapter, fn, err = varint.Int.Unmarshal(bs[n:])
	n += fn
	if err != nil {
		return v, n, err
	}
	v.Summary, fn, err = ord.String.Unmarshal(bs[n:])
	n += fn
	if err != nil {
		return v, n, err
	}
	v.Connection, fn, err = ord.String.Unmarshal(bs[n:])
	n += fn
	return v, n, err
}

func (relatedPassageMUS) Size(v RelatedPassage) int {
	return varint.Int.Size(v.Book) + varint.Int.Size(v.Chapter) +
		ord.String.Size(v.Summary) + ord.String.Size(v.Connection)
}

func (relatedPassageMUS) Skip(bs []byte) (n int, err error) {
	n, err = varint.Int.Skip(bs)
	if err != nil {
		return n, err
	}
	var fn int
	fn, err = varint.Int.Skip(bs[n:])
	n += fn
	if err != nil {
		return n, err
	}
	fn, err = skipStrings(bs[n:], 2)
	n += fn
	return n, err
}

type vocabEntryMUS struct{}

func (vocabEntryMUS) Marshal(v VocabEntry, bs []byte) (n int) {
	n = ord.String.Marshal(v.Term, bs)
	n += ord.String.Marshal(v.Definition, bs[n:])
	return n
}

func (vocabEntryMUS) Unmarshal(bs []byte) (v VocabEntry, n int, err error) {
	v.Term, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	var fn int
	v.Definition, fn, err = ord.String.Unmarshal(bs[n:])
	n += fn
	return v, n, err
}

func (vocabEntryMUS) Size(v VocabEntry) int {
	return ord.String.Size(v.Term) + ord.String.Size(v.Definition)
}

func (vocabEntryMUS) Skip(bs []byte) (n int, err error) {
	return skipStrings(bs, 2)
}

type enrichmentMUS struct{}

func (enrichmentMUS) Marshal(v Enrichment, bs []byte) (n int) {
	n = ord.String.Marshal(v.Rendering, bs)
	n += ord.String.Marshal(v.Context, bs[n:])
	n += varint.Int.Marshal(len(v.Annotations), bs[n:])
	for _, a := range v.Annotations {
		n += annotationSer.Marshal(a, bs[n:])
	}
	n += varint.Int.Marshal(len(v.ParallelAccounts), bs[n:])
	for _, p := range v.ParallelAccounts {
		n += parallelSer.Marshal(p, bs[n:])
	}
	n += varint.Int.Marshal(len(v.RelatedPassages), bs[n:])
	for _, r := range v.RelatedPassages {
		n += relatedSer.Marshal(r, bs[n:])
	}
	n += stringSliceSer.Marshal(v.DiscussionPrompts, bs[n:])
	n += stringSliceSer.Marshal(v.Themes, bs[n:])
	n += varint.Int.Marshal(len(v.Vocabulary), bs[n:])
	for _, e := range v.Vocabulary {
		n += vocabSer.Marshal(e, bs[n:])
	}
	n += ord.String.Marshal(v.Model, bs[n:])
	n += timeSer.Marshal(v.GeneratedAt, bs[n:])
	return n
}

func (enrichmentMUS) Unmarshal(bs []byte) (v Enrichment, n int, err error) {
	v.Rendering, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	var fn int
	v.Context, fn, err = ord.String.Unmarshal(bs[n:])
	n += fn
	if err != nil {
		return v, n, err
	}

	var length int
	length, fn, err = varint.Int.Unmarshal(bs[n:])
	n += fn
	if err != nil {
		return v, n, err
	}
	for i := 0; i < length; i++ {
		var a Annotation
		a, fn, err = annotationSer.Unmarshal(bs[n:])
		n += fn
		if err != nil {
			return v, n, err
		}
		v.Annotations = append(v.Annotations, a)
	}

	length, fn, err = varint.Int.Unmarshal(bs[n:])
	n += fn
	if err != nil {
		return v, n, err
	}
	for i := 0; i < length; i++ {
		var p ParallelAccount
		p, fn, err = parallelSer.Unmarshal(bs[n:])
		n += fn
		if err != nil {
			return v, n, err
		}
		v.ParallelAccounts = append(v.ParallelAccounts, p)
	}

	length, fn, err = varint.Int.Unmarshal(bs[n:])
	n += fn
	if err != nil {
		return v, n, err
	}
	for i := 0; i < length; i++ {
		var r RelatedPassage
		r, fn, err = relatedSer.Unmarshal(bs[n:])
		n += fn
		if err != nil {
			return v, n, err
		}
		v.RelatedPassages = append(v.RelatedPassages, r)
	}

	v.DiscussionPrompts, fn, err = stringSliceSer.Unmarshal(bs[n:])
	n += fn
	if err != nil {
		return v, n, err
	}
	v.Themes, fn, err = stringSliceSer.Unmarshal(bs[n:])
	n += fn
	if err != nil {
		return v, n, err
	}

	length, fn, err = varint.Int.Unmarshal(bs[n:])
	n += fn
	if err != nil {
		return v, n, err
	}
	for i := 0; i < length; i++ {
		var e VocabEntry
		e, fn, err = vocabSer.Unmarshal(bs[n:])
		n += fn
		if err != nil {
			return v, n, err
		}
		v.Vocabulary = append(v.Vocabulary, e)
	}

	v.Model, fn, err = ord.String.Unmarshal(bs[n:])
	n += fn
	if err != nil {
		return v, n, err
	}
	v.GeneratedAt, fn, err = timeSer.Unmarshal(bs[n:])
	n += fn
	return v, n, err
}

func (enrichmentMUS) Size(v Enrichment) (size int) {
	size = ord.String.Size(v.Rendering) + ord.String.Size(v.Context)
	size += varint.Int.Size(len(v.Annotations))
	for _, a := range v.Annotations {
		size += annotationSer.Size(a)
	}
	size += varint.Int.Size(len(v.ParallelAccounts))
	for _, p := range v.ParallelAccounts {
		size += parallelSer.Size(p)
	}
	size += varint.Int.Size(len(v.RelatedPassages))
	for _, r := range v.RelatedPassages {
		size += relatedSer.Size(r)
	}
	size += stringSliceSer.Size(v.DiscussionPrompts)
	size += stringSliceSer.Size(v.Themes)
	size += varint.Int.Size(len(v.Vocabulary))
	for _, e := range v.Vocabulary {
		size += vocabSer.Size(e)
	}
	size += ord.String.Size(v.Model)
	size += timeSer.Size(v.GeneratedAt)
	return size
}

func (s enrichmentMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type chunkMUS struct{}

func (chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = varint.Int.Marshal(v.Index, bs)
	n += varint.Int.Marshal(v.Span.Start, bs[n:])
	n += varint.Int.Marshal(v.Span.End, bs[n:])
	n += varint.Int.Marshal(v.Location.Book, bs[n:])
	n += varint.Int.Marshal(v.Location.Chapter, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += varint.Int.Marshal(v.WordCount, bs[n:])
	if v.Enrichment != nil {
		n += ord.Bool.Marshal(true, bs[n:])
		n += EnrichmentMUS.Marshal(*v.Enrichment, bs[n:])
	} else {
		n += ord.Bool.Marshal(false, bs[n:])
	}
	n += timeSer.Marshal(v.InsertedAt, bs[n:])
	n += timeSer.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	v.Index, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	var fn int
	ints := []*int{&v.Span.Start, &v.Span.End, &v.Location.Book, &v.Location.Chapter}
	for _, f := range ints {
		*f, fn, err = varint.Int.Unmarshal(bs[n:])
		n += fn
		if err != nil {
			return v, n, err
		}
	}
	v.Text, fn, err = ord.String.Unmarshal(bs[n:])
	n += fn
	if err != nil {
		return v, n, err
	}
	v.WordCount, fn, err = varint.Int.Unmarshal(bs[n:])
	n += fn
	if err != nil {
		return v, n, err
	}

	var present bool
	present, fn, err = ord.Bool.Unmarshal(bs[n:])
	n += fn
	if err != nil {
		return v, n, err
	}
	if present {
		var e Enrichment
		e, fn, err = EnrichmentMUS.Unmarshal(bs[n:])
		n += fn
		if err != nil {
			return v, n, err
		}
		v.Enrichment = &e
	}

	v.InsertedAt, fn, err = timeSer.Unmarshal(bs[n:])
	n += fn
	if err != nil {
		return v, n, err
	}
	v.UpdatedAt, fn, err = timeSer.Unmarshal(bs[n:])
	n += fn
	return v, n, err
}

func (chunkMUS) Size(v Chunk) (size int) {
	size = varint.Int.Size(v.Index)
	size += varint.Int.Size(v.Span.Start) + varint.Int.Size(v.Span.End)
	size += varint.Int.Size(v.Location.Book) + varint.Int.Size(v.Location.Chapter)
	size += ord.String.Size(v.Text)
	size += varint.Int.Size(v.WordCount)
	size += ord.Bool.Size(v.Enrichment != nil)
	if v.Enrichment != nil {
		size += EnrichmentMUS.Size(*v.Enrichment)
	}
	size += timeSer.Size(v.InsertedAt) + timeSer.Size(v.UpdatedAt)
	return size
}

func (s chunkMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type publicationEntryMUS struct{}

func (publicationEntryMUS) Marshal(v PublicationEntry, bs []byte) (n int) {
	n = varint.Int.Marshal(v.ChunkIndex, bs)
	n += ord.String.Marshal(v.DestinationID, bs[n:])
	n += ord.String.Marshal(v.URL, bs[n:])
	n += timeSer.Marshal(v.PublishedAt, bs[n:])
	return n
}

func (publicationEntryMUS) Unmarshal(bs []byte) (v PublicationEntry, n int, err error) {
	v.ChunkIndex, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	var fn int
	v.DestinationID, fn, err = ord.String.Unmarshal(bs[n:])
	n += fn
	if err != nil {
		return v, n, err
	}
	v.URL, fn, err = ord.String.Unmarshal(bs[n:])
	n += fn
	if err != nil {
		return v, n, err
	}
	v.PublishedAt, fn, err = timeSer.Unmarshal(bs[n:])
	n += fn
	return v, n, err
}

func (publicationEntryMUS) Size(v PublicationEntry) int {
	return varint.Int.Size(v.ChunkIndex) + ord.String.Size(v.DestinationID) +
		ord.String.Size(v.URL) + timeSer.Size(v.PublishedAt)
}

func (s publicationEntryMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type manifestMUS struct{}

func (manifestMUS) Marshal(v Manifest, bs []byte) (n int) {
	n = FingerprintMUS.Marshal(v.Source, bs)
	n += varint.Int.Marshal(v.SourceLen, bs[n:])
	n += varint.Int.Marshal(v.ChunkCount, bs[n:])
	n += varint.Int.Marshal(v.TargetSize, bs[n:])
	n += varint.Int.Marshal(v.MinSize, bs[n:])
	n += varint.Int.Marshal(v.MaxSize, bs[n:])
	n += timeSer.Marshal(v.SegmentedAt, bs[n:])
	return n
}

func (manifestMUS) Unmarshal(bs []byte) (v Manifest, n int, err error) {
	v.Source, n, err = FingerprintMUS.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	var fn int
	ints := []*int{&v.SourceLen, &v.ChunkCount, &v.TargetSize, &v.MinSize, &v.MaxSize}
	for _, f := range ints {
		*f, fn, err = varint.Int.Unmarshal(bs[n:])
		n += fn
		if err != nil {
			return v, n, err
		}
	}
	v.SegmentedAt, fn, err = timeSer.Unmarshal(bs[n:])
	n += fn
	return v, n, err
}

func (manifestMUS) Size(v Manifest) int {
	return FingerprintMUS.Size(v.Source) + varint.Int.Size(v.SourceLen) +
		varint.Int.Size(v.ChunkCount) + varint.Int.Size(v.TargetSize) +
		varint.Int.Size(v.MinSize) + varint.Int.Size(v.MaxSize) +
		timeSer.Size(v.SegmentedAt)
}

func (s manifestMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

// skipStrings skips count consecutive string fields.
func skipStrings(bs []byte, count int) (n int, err error) {
	for i := 0; i < count; i++ {
		var fn int
		fn, err = ord.String.Skip(bs[n:])
		n += fn
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
