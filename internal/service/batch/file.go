package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/oshokin/id3v2/v2"

	"isrc-grabber/internal/client/deezer"
	"isrc-grabber/internal/constants"
	"isrc-grabber/internal/logger"
	"isrc-grabber/internal/utils"
)

// saveTrackFiles writes the audio payload and the lyrics document into the
// item's output directory: <output>/<isrc>/audio.mp3 and lyrics.json.
func (s *ServiceImpl) saveTrackFiles(ctx context.Context, item *Item, result *deezer.DownloadResult) error {
	trackDir := filepath.Join(s.cfg.OutputPath, utils.SanitizeFilename(item.ISRC))
	if err := os.MkdirAll(trackDir, constants.DefaultFolderPermissions); err != nil {
		return fmt.Errorf("failed to create track directory: %w", err)
	}

	if err := s.writeAudioFile(ctx, trackDir, result); err != nil {
		return err
	}

	return s.writeLyricsFile(trackDir, item)
}

// writeAudioFile saves the payload through a temporary file so a crash or an
// interrupt never leaves a truncated audio.mp3 behind.
func (s *ServiceImpl) writeAudioFile(ctx context.Context, trackDir string, result *deezer.DownloadResult) error {
	audioPath := filepath.Join(trackDir, constants.AudioFilename)
	tempPath := audioPath + "_" + uuid.New().String() + constants.PartFileExtension

	if err := os.WriteFile(tempPath, result.Data, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	// Tags are best-effort: an untagged file is still a valid download.
	if err := writeTags(tempPath, result.Track); err != nil {
		logger.Warnf(ctx, "Failed to tag track %d: %v", result.TrackID, err)
	}

	if err := os.Rename(tempPath, audioPath); err != nil {
		_ = os.Remove(tempPath)

		return fmt.Errorf("failed to finalize audio file: %w", err)
	}

	return nil
}

// writeTags stamps the gateway track data into the file's ID3 frames.
func writeTags(path string, track *deezer.TrackData) error {
	if track == nil {
		return nil
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open audio file for tagging: %w", err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if track.Title != "" {
		tag.SetTitle(track.Title)
	}

	if track.Artist != "" {
		tag.SetArtist(track.Artist)
	}

	if track.Album != "" {
		tag.SetAlbum(track.Album)
	}

	if track.ISRC != "" {
		tag.AddTextFrame(tag.CommonID("ISRC"), tag.DefaultEncoding(), track.ISRC)
	}

	if err = tag.Save(); err != nil {
		return fmt.Errorf("failed to save tags: %w", err)
	}

	return nil
}

// writeLyricsFile saves the item's lyrics documents as a JSON file. Items
// imported without lyrics get empty objects, matching the file schema.
func (s *ServiceImpl) writeLyricsFile(trackDir string, item *Item) error {
	document := lyricsFile{
		Unsynced: item.LyricsUnsynced,
		Synced:   item.LyricsSynced,
	}

	if len(document.Unsynced) == 0 {
		document.Unsynced = json.RawMessage("{}")
	}

	if len(document.Synced) == 0 {
		document.Synced = json.RawMessage("{}")
	}

	content, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode lyrics document: %w", err)
	}

	lyricsPath := filepath.Join(trackDir, constants.LyricsFilename)
	if err = os.WriteFile(lyricsPath, content, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write lyrics file: %w", err)
	}

	return nil
}
