// Package blob stores batches of TTFS spike trains in a compact binary form.
//
// # Encoding Workflow
//
//	enc, err := encoder.New(reg)
//	if err != nil {
//	    return err
//	}
//
//	be, err := blob.NewSpikeEncoder(enc.NumNeurons(),
//	    blob.WithCompression(format.CompressionZstd),
//	    blob.WithDelayEncoding(format.DelayFloat32),
//	)
//	if err != nil {
//	    return err
//	}
//
//	for _, rec := range records {
//	    train, err := enc.Encode(rec)
//	    if err != nil {
//	        return err
//	    }
//	    if err := be.AddTrain(train); err != nil {
//	        return err
//	    }
//	}
//
//	sb, err := be.Finish()
//	os.WriteFile("spikes.blob", sb.Bytes(), 0o644)
//
// # Decoding Workflow
//
//	sb, err := blob.DecodeSpikeBlob(data)
//	if err != nil {
//	    return err
//	}
//	for i, train := range sb.All() {
//	    fmt.Println(i, len(train))
//	}
//
// Several blobs with the same neuron count can be read as one sequence with
// NewSpikeBlobSet.
//
// The binary layout is described in package section. Decoding verifies the
// xxHash64 checksum of the uncompressed payloads and rejects channel ids at or
// above the neuron count.
package blob
