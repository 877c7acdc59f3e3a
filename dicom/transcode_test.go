package dicom

import (
	"strings"
	"testing"

	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"

	_ "github.com/cocosip/go-jpegls/jpegls"
)

func geometryElements(t *testing.T, width, height, samples, bitsStored, bitsAllocated int) []*dicom.Element {
	t.Helper()
	var elems []*dicom.Element
	for _, e := range []struct {
		tag   tag.Tag
		value int
	}{
		{tag.Rows, height},
		{tag.Columns, width},
		{tag.SamplesPerPixel, samples},
		{tag.BitsStored, bitsStored},
		{tag.BitsAllocated, bitsAllocated},
	} {
		elem, err := dicom.NewElement(e.tag, []int{e.value})
		require.NoError(t, err)
		elems = append(elems, elem)
	}
	ts, err := dicom.NewElement(tag.TransferSyntaxUID, []string{transfer.ExplicitVRLittleEndian.UID().UID()})
	require.NoError(t, err)
	return append(elems, ts)
}

func nativeGrayDataset(t *testing.T, width, height int, pixels []byte) *Dataset {
	t.Helper()
	nf := frame.NewNativeFrame[uint8](8, height, width, width*height, 1)
	copy(nf.RawData, pixels)
	pd, err := dicom.NewElement(tag.PixelData, dicom.PixelDataInfo{
		Frames: []*frame.Frame{{NativeData: nf}},
	})
	require.NoError(t, err)
	elems := append(geometryElements(t, width, height, 1, 8, 8), pd)
	return &Dataset{Data: dicom.Dataset{Elements: elems}}
}

func nativeGray16Dataset(t *testing.T, width, height, bitsStored int, pixels []uint16) *Dataset {
	t.Helper()
	nf := frame.NewNativeFrame[uint16](16, height, width, width*height, 1)
	copy(nf.RawData, pixels)
	pd, err := dicom.NewElement(tag.PixelData, dicom.PixelDataInfo{
		Frames: []*frame.Frame{{NativeData: nf}},
	})
	require.NoError(t, err)
	elems := append(geometryElements(t, width, height, 1, bitsStored, 16), pd)
	return &Dataset{Data: dicom.Dataset{Elements: elems}}
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	const width, height = 23, 17
	pixels := make([]byte, width*height)
	for i := range pixels {
		pixels[i] = byte(i * 13 % 251)
	}
	ds := nativeGrayDataset(t, width, height, pixels)

	require.NoError(t, Compress(ds, CompressOptions{}))
	assert.Equal(t, transfer.JPEGLSLossless.UID().UID(), ds.TransferSyntaxUID())

	info, err := ds.pixelDataInfo()
	require.NoError(t, err)
	assert.True(t, info.IsEncapsulated)

	encap, err := ds.EncapsulatedFrames()
	require.NoError(t, err)
	require.Len(t, encap, 1)
	require.True(t, len(encap[0]) >= 2)
	assert.Equal(t, []byte{0xFF, 0xD8}, encap[0][:2])

	require.NoError(t, Decompress(ds))
	assert.Equal(t, transfer.ExplicitVRLittleEndian.UID().UID(), ds.TransferSyntaxUID())

	decoded, err := ds.NativeFrames()
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, pixels, decoded[0])
}

func TestCompressDecompress12Bit(t *testing.T) {
	const width, height = 13, 9
	pixels := make([]uint16, width*height)
	for i := range pixels {
		pixels[i] = uint16(i*191) & 0x0FFF
	}
	ds := nativeGray16Dataset(t, width, height, 12, pixels)

	require.NoError(t, Compress(ds, CompressOptions{}))
	require.NoError(t, Decompress(ds))

	decoded, err := ds.NativeFrames()
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	for i, want := range pixels {
		got := uint16(decoded[0][2*i]) | uint16(decoded[0][2*i+1])<<8
		require.Equal(t, want, got, "sample %d", i)
	}
}

func TestCompressNearLossless(t *testing.T) {
	const width, height, near = 23, 17, 2
	pixels := make([]byte, width*height)
	for i := range pixels {
		pixels[i] = byte(i * 37 % 241)
	}
	ds := nativeGrayDataset(t, width, height, pixels)
	require.NoError(t, ds.SetString(tag.SOPInstanceUID, "1.2.3.4"))

	require.NoError(t, Compress(ds, CompressOptions{NearLossless: near}))
	assert.Equal(t, transfer.JPEGLSNearLossless.UID().UID(), ds.TransferSyntaxUID())
	assert.Equal(t, "01", ds.GetString(tag.LossyImageCompression))
	assert.Equal(t, "ISO_14495_1", ds.GetString(tag.LossyImageCompressionMethod))

	sop := ds.GetString(tag.SOPInstanceUID)
	assert.NotEqual(t, "1.2.3.4", sop)
	assert.True(t, strings.HasPrefix(sop, "2.25."))
	assert.Equal(t, sop, ds.GetString(tag.MediaStorageSOPInstanceUID))

	require.NoError(t, Decompress(ds))
	decoded, err := ds.NativeFrames()
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	for i, want := range pixels {
		diff := int(want) - int(decoded[0][i])
		if diff < 0 {
			diff = -diff
		}
		require.LessOrEqual(t, diff, near, "sample %d", i)
	}
}
