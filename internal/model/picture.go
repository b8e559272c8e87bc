package model

// PictureKind is the closed set of ID3v2 APIC picture types; other
// container formats map onto it by best-effort equivalence, defaulting
// to FrontCover.
type PictureKind uint8

const (
	PictureOther             PictureKind = 0
	PictureFileIcon          PictureKind = 1
	PictureOtherFileIcon     PictureKind = 2
	PictureFrontCover        PictureKind = 3
	PictureBackCover         PictureKind = 4
	PictureLeafletPage       PictureKind = 5
	PictureMedia             PictureKind = 6
	PictureLeadArtist        PictureKind = 7
	PictureArtist            PictureKind = 8
	PictureConductor         PictureKind = 9
	PictureBand              PictureKind = 10
	PictureComposer          PictureKind = 11
	PictureLyricist          PictureKind = 12
	PictureRecordingLocation PictureKind = 13
	PictureDuringRecording   PictureKind = 14
	PictureDuringPerformance PictureKind = 15
	PictureVideoCapture      PictureKind = 16
	PictureFish              PictureKind = 17
	PictureIllustration      PictureKind = 18
	PictureBandLogo          PictureKind = 19
	PicturePublisherLogo     PictureKind = 20
)

func (k PictureKind) String() string {
	switch k {
	case PictureFileIcon:
		return "FileIcon"
	case PictureOtherFileIcon:
		return "OtherFileIcon"
	case PictureFrontCover:
		return "FrontCover"
	case PictureBackCover:
		return "BackCover"
	case PictureLeafletPage:
		return "LeafletPage"
	case PictureMedia:
		return "Media"
	case PictureLeadArtist:
		return "LeadArtist"
	case PictureArtist:
		return "Artist"
	case PictureConductor:
		return "Conductor"
	case PictureBand:
		return "Band"
	case PictureComposer:
		return "Composer"
	case PictureLyricist:
		return "Lyricist"
	case PictureRecordingLocation:
		return "RecordingLocation"
	case PictureDuringRecording:
		return "DuringRecording"
	case PictureDuringPerformance:
		return "DuringPerformance"
	case PictureVideoCapture:
		return "VideoCapture"
	case PictureFish:
		return "Fish"
	case PictureIllustration:
		return "Illustration"
	case PictureBandLogo:
		return "BandLogo"
	case PicturePublisherLogo:
		return "PublisherLogo"
	default:
		return "Other"
	}
}

// Picture is one embedded image attached to a file.
type Picture struct {
	MIMEType    string
	Data        []byte
	Type        PictureKind
	Description string
}
