package scan

import (
	"encoding/json"
	"os"
	"strings"

	"go.audiometa.dev/audiometa/internal/errs"
	"go.audiometa.dev/audiometa/internal/model"
	"go.audiometa.dev/audiometa/internal/ops"
)

type exportTags struct {
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Album   string `json:"album"`
	Comment string `json:"comment"`
	Genre   string `json:"genre"`
	Year    uint32 `json:"year"`
	Track   uint32 `json:"track"`
}

type exportProperties struct {
	Length     uint32 `json:"length"`
	Bitrate    uint32 `json:"bitrate"`
	SampleRate uint32 `json:"sampleRate"`
	Channels   uint8  `json:"channels"`
}

type exportDynamics struct {
	ReplayGainTrackGain *string `json:"replayGainTrackGain"`
	ReplayGainTrackPeak *string `json:"replayGainTrackPeak"`
	ReplayGainAlbumGain *string `json:"replayGainAlbumGain"`
	ReplayGainAlbumPeak *string `json:"replayGainAlbumPeak"`
	AppleSoundCheck     *string `json:"appleSoundCheck"`
}

type exportEntry struct {
	Path        string            `json:"path"`
	Tags        exportTags        `json:"tags"`
	Properties  *exportProperties `json:"properties"`
	HasCoverArt bool              `json:"hasCoverArt"`
	Dynamics    exportDynamics    `json:"dynamics"`
}

func toExportEntry(meta FileMetadata) exportEntry {
	e := exportEntry{
		Path: meta.Path,
		Tags: exportTags{
			Title: meta.Tag.Title, Artist: meta.Tag.Artist, Album: meta.Tag.Album,
			Comment: meta.Tag.Comment, Genre: meta.Tag.Genre, Year: meta.Tag.Year, Track: meta.Tag.Track,
		},
		HasCoverArt: meta.HasCoverArt,
	}
	if meta.HasProperties {
		e.Properties = &exportProperties{
			Length: meta.Properties.LengthSeconds, Bitrate: meta.Properties.BitrateKbps,
			SampleRate: meta.Properties.SampleRateHz, Channels: meta.Properties.Channels,
		}
	}
	e.Dynamics = exportDynamics{
		ReplayGainTrackGain: optionalValue(meta.Dynamics, "REPLAYGAIN_TRACK_GAIN"),
		ReplayGainTrackPeak: optionalValue(meta.Dynamics, "REPLAYGAIN_TRACK_PEAK"),
		ReplayGainAlbumGain: optionalValue(meta.Dynamics, "REPLAYGAIN_ALBUM_GAIN"),
		ReplayGainAlbumPeak: optionalValue(meta.Dynamics, "REPLAYGAIN_ALBUM_PEAK"),
		AppleSoundCheck:     optionalValue(meta.Dynamics, model.AppleSoundCheckKey),
	}
	return e
}

func optionalValue(m model.PropertyMap, key string) *string {
	v := m.Get(key)
	if v == "" {
		return nil
	}
	return &v
}

// ExportFolderMetadata scans root and writes the result to outPath as a
// JSON array (outPath ends in ".json") or newline-delimited JSON
// objects (outPath ends in ".jsonl" or anything else).
func ExportFolderMetadata(opener ops.HandleOpener, root, outPath string, opts Options) error {
	result, err := ScanFolder(opener, root, opts)
	if err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return errs.FileOperation(errs.FileOpWrite, outPath, err)
	}
	defer f.Close()

	if strings.HasSuffix(strings.ToLower(outPath), ".json") {
		entries := make([]exportEntry, len(result.Results))
		for i, meta := range result.Results {
			entries[i] = toExportEntry(meta)
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return errs.FileOperation(errs.FileOpWrite, outPath, err)
		}
		return nil
	}

	enc := json.NewEncoder(f)
	for _, meta := range result.Results {
		if err := enc.Encode(toExportEntry(meta)); err != nil {
			return errs.FileOperation(errs.FileOpWrite, outPath, err)
		}
	}
	return nil
}
