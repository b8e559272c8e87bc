package audiometa

import "go.audiometa.dev/audiometa/internal/errs"

// Extended metadata accessors are thin, named projections over the
// generic PropertyMap (GetProperty/SetProperty), plus the one field —
// Apple Sound Check — that MP4 stores outside the property map
// entirely, under the "iTunNORM" free-form atom, and every other
// format stores as a regular property-map entry instead.

func (h *FileHandle) getProperty(key string) (string, error) {
	if err := h.checkDisposed(errs.MetadataOpRead, key); err != nil {
		return "", err
	}
	v, _ := h.facade.GetProperty(key)
	return v, nil
}

func (h *FileHandle) setProperty(key, value string) error {
	if err := h.checkDisposed(errs.MetadataOpWrite, key); err != nil {
		return err
	}
	h.facade.SetProperty(key, value)
	return nil
}

// MusicBrainzTrackID returns the MUSICBRAINZ_TRACKID property.
func (h *FileHandle) MusicBrainzTrackID() (string, error) { return h.getProperty("MUSICBRAINZ_TRACKID") }

// SetMusicBrainzTrackID sets the MUSICBRAINZ_TRACKID property.
func (h *FileHandle) SetMusicBrainzTrackID(id string) error {
	return h.setProperty("MUSICBRAINZ_TRACKID", id)
}

// MusicBrainzAlbumID returns the MUSICBRAINZ_ALBUMID property.
func (h *FileHandle) MusicBrainzAlbumID() (string, error) { return h.getProperty("MUSICBRAINZ_ALBUMID") }

// SetMusicBrainzAlbumID sets the MUSICBRAINZ_ALBUMID property.
func (h *FileHandle) SetMusicBrainzAlbumID(id string) error {
	return h.setProperty("MUSICBRAINZ_ALBUMID", id)
}

// MusicBrainzArtistID returns the MUSICBRAINZ_ARTISTID property.
func (h *FileHandle) MusicBrainzArtistID() (string, error) {
	return h.getProperty("MUSICBRAINZ_ARTISTID")
}

// SetMusicBrainzArtistID sets the MUSICBRAINZ_ARTISTID property.
func (h *FileHandle) SetMusicBrainzArtistID(id string) error {
	return h.setProperty("MUSICBRAINZ_ARTISTID", id)
}

// MusicBrainzAlbumArtistID returns the MUSICBRAINZ_ALBUMARTISTID property.
func (h *FileHandle) MusicBrainzAlbumArtistID() (string, error) {
	return h.getProperty("MUSICBRAINZ_ALBUMARTISTID")
}

// SetMusicBrainzAlbumArtistID sets the MUSICBRAINZ_ALBUMARTISTID property.
func (h *FileHandle) SetMusicBrainzAlbumArtistID(id string) error {
	return h.setProperty("MUSICBRAINZ_ALBUMARTISTID", id)
}

// MusicBrainzReleaseGroupID returns the MUSICBRAINZ_RELEASEGROUPID property.
func (h *FileHandle) MusicBrainzReleaseGroupID() (string, error) {
	return h.getProperty("MUSICBRAINZ_RELEASEGROUPID")
}

// SetMusicBrainzReleaseGroupID sets the MUSICBRAINZ_RELEASEGROUPID property.
func (h *FileHandle) SetMusicBrainzReleaseGroupID(id string) error {
	return h.setProperty("MUSICBRAINZ_RELEASEGROUPID", id)
}

// AcoustIDID returns the ACOUSTID_ID property.
func (h *FileHandle) AcoustIDID() (string, error) { return h.getProperty("ACOUSTID_ID") }

// SetAcoustIDID sets the ACOUSTID_ID property.
func (h *FileHandle) SetAcoustIDID(id string) error { return h.setProperty("ACOUSTID_ID", id) }

// AcoustIDFingerprint returns the ACOUSTID_FINGERPRINT property.
func (h *FileHandle) AcoustIDFingerprint() (string, error) {
	return h.getProperty("ACOUSTID_FINGERPRINT")
}

// SetAcoustIDFingerprint sets the ACOUSTID_FINGERPRINT property.
func (h *FileHandle) SetAcoustIDFingerprint(fp string) error {
	return h.setProperty("ACOUSTID_FINGERPRINT", fp)
}

// ReplayGainTrackGain returns the REPLAYGAIN_TRACK_GAIN property.
func (h *FileHandle) ReplayGainTrackGain() (string, error) {
	return h.getProperty("REPLAYGAIN_TRACK_GAIN")
}

// SetReplayGainTrackGain sets the REPLAYGAIN_TRACK_GAIN property.
func (h *FileHandle) SetReplayGainTrackGain(gain string) error {
	return h.setProperty("REPLAYGAIN_TRACK_GAIN", gain)
}

// ReplayGainTrackPeak returns the REPLAYGAIN_TRACK_PEAK property.
func (h *FileHandle) ReplayGainTrackPeak() (string, error) {
	return h.getProperty("REPLAYGAIN_TRACK_PEAK")
}

// SetReplayGainTrackPeak sets the REPLAYGAIN_TRACK_PEAK property.
func (h *FileHandle) SetReplayGainTrackPeak(peak string) error {
	return h.setProperty("REPLAYGAIN_TRACK_PEAK", peak)
}

// ReplayGainAlbumGain returns the REPLAYGAIN_ALBUM_GAIN property.
func (h *FileHandle) ReplayGainAlbumGain() (string, error) {
	return h.getProperty("REPLAYGAIN_ALBUM_GAIN")
}

// SetReplayGainAlbumGain sets the REPLAYGAIN_ALBUM_GAIN property.
func (h *FileHandle) SetReplayGainAlbumGain(gain string) error {
	return h.setProperty("REPLAYGAIN_ALBUM_GAIN", gain)
}

// ReplayGainAlbumPeak returns the REPLAYGAIN_ALBUM_PEAK property.
func (h *FileHandle) ReplayGainAlbumPeak() (string, error) {
	return h.getProperty("REPLAYGAIN_ALBUM_PEAK")
}

// SetReplayGainAlbumPeak sets the REPLAYGAIN_ALBUM_PEAK property.
func (h *FileHandle) SetReplayGainAlbumPeak(peak string) error {
	return h.setProperty("REPLAYGAIN_ALBUM_PEAK", peak)
}

// AppleSoundCheck returns Apple Sound Check's normalization string. On
// MP4 it reads the "iTunNORM" free-form atom directly; every other
// format stores it as the APPLE_SOUND_CHECK property.
func (h *FileHandle) AppleSoundCheck() (string, error) {
	if err := h.checkDisposed(errs.MetadataOpRead, "appleSoundCheck"); err != nil {
		return "", err
	}
	if h.facade.IsMP4() {
		v, _ := h.facade.GetMP4Item(AppleSoundCheckMP4Item)
		return v, nil
	}
	v, _ := h.facade.GetProperty(AppleSoundCheckKey)
	return v, nil
}

// SetAppleSoundCheck sets Apple Sound Check's normalization string,
// using the same MP4/property-map split as AppleSoundCheck. Passing an
// empty value on MP4 removes the atom entirely rather than writing an
// empty one, matching how the free-form atom has no "present but empty"
// state worth keeping.
func (h *FileHandle) SetAppleSoundCheck(value string) error {
	if err := h.checkDisposed(errs.MetadataOpWrite, "appleSoundCheck"); err != nil {
		return err
	}
	if h.facade.IsMP4() {
		if value == "" {
			return h.facade.RemoveMP4Item(AppleSoundCheckMP4Item)
		}
		return h.facade.SetMP4Item(AppleSoundCheckMP4Item, value)
	}
	h.facade.SetProperty(AppleSoundCheckKey, value)
	return nil
}
