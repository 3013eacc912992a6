package load

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/repositories"
)

// DefaultChunkSize bounds how many rows go into a single statement, keeping
// memory and lock duration in check. Matches the transform stage's chunking.
const DefaultChunkSize = 100

// RelationalLoader loads cities, meetings and agendas into the relational
// store in foreign-key order. Each chunk commits independently, so a late
// failure never rolls back earlier chunks.
type RelationalLoader struct {
	cities    repositories.CityRepository
	meetings  repositories.MeetingRepository
	agendas   repositories.AgendaRepository
	chunkSize int
	retry     RetryPolicy
	logger    *zap.Logger
}

// NewRelationalLoader creates a new relational loader
func NewRelationalLoader(
	cities repositories.CityRepository,
	meetings repositories.MeetingRepository,
	agendas repositories.AgendaRepository,
	chunkSize int,
	retry RetryPolicy,
	logger *zap.Logger,
) *RelationalLoader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &RelationalLoader{
		cities:    cities,
		meetings:  meetings,
		agendas:   agendas,
		chunkSize: chunkSize,
		retry:     retry,
		logger:    logger,
	}
}

// Load writes the relational portion of the batch: cities first, then
// meetings resolved against the city mapping, then agendas. Err is set only
// for infrastructure failures; per-row problems are recorded in the entity
// results and loading continues.
func (l *RelationalLoader) Load(ctx context.Context, batch *entities.Batch) entities.RelationalResult {
	var res entities.RelationalResult

	cityIDs, err := l.loadCities(ctx, batch.Cities, &res.Cities)
	if err != nil {
		res.Err = err
		return res
	}

	loadedMeetings, err := l.loadMeetings(ctx, batch.Meetings, cityIDs, &res.Meetings)
	if err != nil {
		res.Err = err
		return res
	}

	if err := l.loadAgendas(ctx, batch.Agendas, loadedMeetings, &res.Agendas); err != nil {
		res.Err = err
	}

	if l.logger != nil {
		l.logger.Info("relational load complete",
			zap.String("batch_id", batch.BatchID),
			zap.Int("cities_inserted", res.Cities.Inserted),
			zap.Int("meetings_inserted", res.Meetings.Inserted),
			zap.Int("meetings_updated", res.Meetings.Updated),
			zap.Int("agendas_inserted", res.Agendas.Inserted),
			zap.Int("failed", res.Cities.Failed+res.Meetings.Failed+res.Agendas.Failed),
		)
	}
	return res
}

// loadCities upserts the batch's cities and returns the city_name to city_id
// mapping used to resolve meeting references.
func (l *RelationalLoader) loadCities(ctx context.Context, records []entities.CityRecord, out *entities.EntityResult) (map[string]uint, error) {
	var names []string
	dedup := make(map[string]entities.CityRecord, len(records))
	for _, rec := range records {
		if rec.CityName == "" {
			out.Reject("city", "", "missing city_name")
			continue
		}
		if _, seen := dedup[rec.CityName]; seen {
			out.Skipped++
		} else {
			names = append(names, rec.CityName)
		}
		dedup[rec.CityName] = rec
	}
	if len(names) == 0 {
		return map[string]uint{}, nil
	}

	var existingRows []*entities.City
	if err := retryConnection(ctx, l.retry, func() error {
		var err error
		existingRows, err = l.cities.FindByNames(ctx, names)
		return err
	}); err != nil {
		return nil, fmt.Errorf("querying existing cities: %w", err)
	}
	existing := make(map[string]*entities.City, len(existingRows))
	for _, city := range existingRows {
		existing[city.CityName] = city
	}

	type pendingCity struct {
		row      *entities.City
		existing bool
	}
	var pending []pendingCity
	for _, name := range names {
		rec := dedup[name]
		if cur, ok := existing[name]; ok && cur.State == rec.State {
			// Upsert would be a no-op.
			out.Skipped++
			continue
		}
		_, exists := existing[name]
		pending = append(pending, pendingCity{
			row:      &entities.City{CityName: rec.CityName, State: rec.State},
			existing: exists,
		})
	}

	for start := 0; start < len(pending); start += l.chunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunk := pending[start:min(start+l.chunkSize, len(pending))]
		rows := make([]*entities.City, len(chunk))
		for i, p := range chunk {
			rows[i] = p.row
		}

		err := retryConnection(ctx, l.retry, func() error {
			return l.cities.UpsertChunk(ctx, rows)
		})
		switch {
		case err == nil:
			for _, p := range chunk {
				if p.existing {
					out.Updated++
				} else {
					out.Inserted++
				}
			}
		case isConstraintViolation(err):
			for _, p := range chunk {
				single := []*entities.City{p.row}
				rerr := retryConnection(ctx, l.retry, func() error {
					return l.cities.UpsertChunk(ctx, single)
				})
				switch {
				case rerr == nil:
					if p.existing {
						out.Updated++
					} else {
						out.Inserted++
					}
				case isConstraintViolation(rerr):
					out.Fail("city", p.row.CityName, rerr.Error())
				default:
					return nil, fmt.Errorf("upserting city %s: %w", p.row.CityName, rerr)
				}
			}
		default:
			return nil, fmt.Errorf("upserting cities: %w", err)
		}
	}

	var mapping map[string]uint
	if err := retryConnection(ctx, l.retry, func() error {
		var err error
		mapping, err = l.cities.MapIDsByName(ctx, names)
		return err
	}); err != nil {
		return nil, fmt.Errorf("mapping city ids: %w", err)
	}
	return mapping, nil
}

// loadMeetings upserts the batch's meetings and returns the set of meeting
// IDs successfully written, used to resolve agenda references.
func (l *RelationalLoader) loadMeetings(ctx context.Context, records []entities.MeetingRecord, cityIDs map[string]uint, out *entities.EntityResult) (map[string]struct{}, error) {
	loaded := make(map[string]struct{})

	// Meetings may reference cities that exist only in prior storage, not in
	// this batch.
	var missingNames []string
	seenName := make(map[string]struct{})
	for _, rec := range records {
		if rec.CityName == "" {
			continue
		}
		if _, ok := cityIDs[rec.CityName]; ok {
			continue
		}
		if _, ok := seenName[rec.CityName]; ok {
			continue
		}
		seenName[rec.CityName] = struct{}{}
		missingNames = append(missingNames, rec.CityName)
	}
	if len(missingNames) > 0 {
		var stored map[string]uint
		if err := retryConnection(ctx, l.retry, func() error {
			var err error
			stored, err = l.cities.MapIDsByName(ctx, missingNames)
			return err
		}); err != nil {
			return loaded, fmt.Errorf("resolving city references: %w", err)
		}
		for name, id := range stored {
			cityIDs[name] = id
		}
	}

	var rows []*entities.Meeting
	index := make(map[string]int)
	for _, rec := range records {
		if rec.MeetingID == "" {
			out.Reject("meeting", "", "missing meeting_id")
			continue
		}
		if rec.CityName == "" {
			out.Reject("meeting", rec.MeetingID, "missing city_name")
			continue
		}
		date, err := entities.ParseMeetingDate(rec.MeetingDate)
		if err != nil {
			out.Reject("meeting", rec.MeetingID, err.Error())
			continue
		}
		cityID, ok := cityIDs[rec.CityName]
		if !ok {
			out.Fail("meeting", rec.MeetingID, fmt.Sprintf("city %q not found in batch or storage", rec.CityName))
			continue
		}
		row := &entities.Meeting{
			MeetingID:           rec.MeetingID,
			CityID:              cityID,
			MeetingDate:         date,
			Title:               rec.Title,
			DurationMin:         rec.DurationMin,
			SpeakerCount:        rec.SpeakerCount,
			TranscriptWordCount: rec.TranscriptWordCount,
			SummaryWordCount:    rec.SummaryWordCount,
		}
		if at, dup := index[rec.MeetingID]; dup {
			// Last occurrence wins within a batch.
			rows[at] = row
			out.Skipped++
			continue
		}
		index[rec.MeetingID] = len(rows)
		rows = append(rows, row)
	}

	for start := 0; start < len(rows); start += l.chunkSize {
		if err := ctx.Err(); err != nil {
			return loaded, err
		}
		chunk := rows[start:min(start+l.chunkSize, len(rows))]
		ids := make([]string, len(chunk))
		for i, m := range chunk {
			ids[i] = m.MeetingID
		}

		var existing map[string]struct{}
		if err := retryConnection(ctx, l.retry, func() error {
			var err error
			existing, err = l.meetings.ExistingIDs(ctx, ids)
			return err
		}); err != nil {
			return loaded, fmt.Errorf("querying existing meetings: %w", err)
		}

		err := retryConnection(ctx, l.retry, func() error {
			return l.meetings.UpsertChunk(ctx, chunk)
		})
		switch {
		case err == nil:
			for _, m := range chunk {
				if _, ok := existing[m.MeetingID]; ok {
					out.Updated++
				} else {
					out.Inserted++
				}
				loaded[m.MeetingID] = struct{}{}
			}
		case isConstraintViolation(err):
			// One bad row poisons the whole statement; retry the rows
			// individually so its chunk-mates still load.
			if l.logger != nil {
				l.logger.Warn("meeting chunk hit constraint violation, falling back to row writes",
					zap.Int("chunk_start", start),
					zap.Error(err),
				)
			}
			for _, m := range chunk {
				single := []*entities.Meeting{m}
				rerr := retryConnection(ctx, l.retry, func() error {
					return l.meetings.UpsertChunk(ctx, single)
				})
				switch {
				case rerr == nil:
					if _, ok := existing[m.MeetingID]; ok {
						out.Updated++
					} else {
						out.Inserted++
					}
					loaded[m.MeetingID] = struct{}{}
				case isConstraintViolation(rerr):
					out.Fail("meeting", m.MeetingID, rerr.Error())
				default:
					return loaded, fmt.Errorf("upserting meeting %s: %w", m.MeetingID, rerr)
				}
			}
		default:
			return loaded, fmt.Errorf("upserting meetings: %w", err)
		}
	}
	return loaded, nil
}

// loadAgendas upserts the batch's agendas, failing only the items whose
// meeting is neither in the just-loaded set nor in prior storage.
func (l *RelationalLoader) loadAgendas(ctx context.Context, records []entities.AgendaRecord, loadedMeetings map[string]struct{}, out *entities.EntityResult) error {
	known := make(map[string]struct{}, len(loadedMeetings))
	for id := range loadedMeetings {
		known[id] = struct{}{}
	}

	var rows []*entities.Agenda
	index := make(map[string]int)
	var unknownIDs []string
	seenUnknown := make(map[string]struct{})
	for _, rec := range records {
		if rec.MeetingID == "" {
			out.Reject("agenda", "", "missing meeting_id")
			continue
		}
		row := &entities.Agenda{
			MeetingID:   rec.MeetingID,
			ItemNumber:  rec.ItemNumber,
			Topic:       rec.Topic,
			Description: rec.Description,
		}
		if at, dup := index[row.Key()]; dup {
			rows[at] = row
			out.Skipped++
			continue
		}
		index[row.Key()] = len(rows)
		rows = append(rows, row)

		if _, ok := known[rec.MeetingID]; !ok {
			if _, seen := seenUnknown[rec.MeetingID]; !seen {
				seenUnknown[rec.MeetingID] = struct{}{}
				unknownIDs = append(unknownIDs, rec.MeetingID)
			}
		}
	}

	if len(unknownIDs) > 0 {
		var stored map[string]struct{}
		if err := retryConnection(ctx, l.retry, func() error {
			var err error
			stored, err = l.meetings.ExistingIDs(ctx, unknownIDs)
			return err
		}); err != nil {
			return fmt.Errorf("resolving agenda meeting references: %w", err)
		}
		for id := range stored {
			known[id] = struct{}{}
		}
	}

	var writable []*entities.Agenda
	for _, row := range rows {
		if _, ok := known[row.MeetingID]; !ok {
			out.Fail("agenda", row.Key(), fmt.Sprintf("meeting %q not found in batch or storage", row.MeetingID))
			continue
		}
		writable = append(writable, row)
	}

	for start := 0; start < len(writable); start += l.chunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk := writable[start:min(start+l.chunkSize, len(writable))]

		chunkMeetings := make([]string, 0, len(chunk))
		seenMeeting := make(map[string]struct{}, len(chunk))
		for _, a := range chunk {
			if _, ok := seenMeeting[a.MeetingID]; !ok {
				seenMeeting[a.MeetingID] = struct{}{}
				chunkMeetings = append(chunkMeetings, a.MeetingID)
			}
		}

		var existing map[string]struct{}
		if err := retryConnection(ctx, l.retry, func() error {
			var err error
			existing, err = l.agendas.ExistingKeys(ctx, chunkMeetings)
			return err
		}); err != nil {
			return fmt.Errorf("querying existing agendas: %w", err)
		}

		err := retryConnection(ctx, l.retry, func() error {
			return l.agendas.UpsertChunk(ctx, chunk)
		})
		switch {
		case err == nil:
			for _, a := range chunk {
				if _, ok := existing[a.Key()]; ok {
					out.Updated++
				} else {
					out.Inserted++
				}
			}
		case isConstraintViolation(err):
			for _, a := range chunk {
				single := []*entities.Agenda{a}
				rerr := retryConnection(ctx, l.retry, func() error {
					return l.agendas.UpsertChunk(ctx, single)
				})
				switch {
				case rerr == nil:
					if _, ok := existing[a.Key()]; ok {
						out.Updated++
					} else {
						out.Inserted++
					}
				case isConstraintViolation(rerr):
					out.Fail("agenda", a.Key(), rerr.Error())
				default:
					return fmt.Errorf("upserting agenda %s: %w", a.Key(), rerr)
				}
			}
		default:
			return fmt.Errorf("upserting agendas: %w", err)
		}
	}
	return nil
}
