// Copyright (C) 2025 ecrypt-io
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package securecell

import (
	"crypto/rand"
	"math"
	"time"

	"github.com/ecrypt-io/ecrypt-go/ecrypterr"
	"github.com/ecrypt-io/ecrypt-go/internal/endian"
	"github.com/ecrypt-io/ecrypt-go/internal/metrics"
	"github.com/ecrypt-io/ecrypt-go/internal/wipe"
	"github.com/ecrypt-io/ecrypt-go/primitives"
)

const aesGCMAlgorithmLabel = "aes256gcm"

const messageKeyLabel = "Ecrypt secure cell message key"

// deriveMessageKey binds the derived AES key to the plaintext length and
// the caller's user context, so that no two distinct (length, context)
// pairs ever reuse a message key under the same master key.
func deriveMessageKey(masterKey []byte, messageLength int, userContext []byte) ([]byte, error) {
	if messageLength < 0 || messageLength > math.MaxUint32 {
		return nil, ecrypterr.ErrInvalidParameter
	}
	var kdfContext [4]byte
	endian.PutUint32LE(kdfContext[:], uint32(messageLength))

	key := make([]byte, primitives.AEADKeySize)
	if err := primitives.DeriveKey(key, masterKey, messageKeyLabel, kdfContext[:], userContext); err != nil {
		wipe.Bytes(key)
		return nil, err
	}
	return key, nil
}

// SealEncrypt encrypts plaintext under masterKey, authenticating context as
// associated data, and returns a single opaque blob: auth_token ||
// ciphertext. The ciphertext is exactly len(plaintext) bytes.
func SealEncrypt(masterKey, plaintext, context []byte) ([]byte, error) {
	start := time.Now()
	success := false
	defer func() {
		metrics.CryptoOperations.WithLabelValues("seal", aesGCMAlgorithmLabel).Inc()
		metrics.CryptoOperationDuration.WithLabelValues("seal", aesGCMAlgorithmLabel).Observe(time.Since(start).Seconds())
		metrics.GlobalCollector().RecordSeal(success, time.Since(start))
	}()

	if len(masterKey) == 0 {
		return nil, ecrypterr.ErrInvalidParameter
	}
	if len(plaintext) > math.MaxUint32 {
		return nil, ecrypterr.ErrInvalidParameter
	}

	key, err := deriveMessageKey(masterKey, len(plaintext), context)
	if err != nil {
		return nil, err
	}
	defer wipe.Bytes(key)

	iv := make([]byte, primitives.AEADIVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, ecrypterr.ErrFail
	}
	defer wipe.Bytes(iv)

	ciphertext, tag, err := primitives.Seal(key, iv, context, plaintext)
	if err != nil {
		metrics.CryptoErrors.WithLabelValues("seal", "fail").Inc()
		return nil, err
	}
	defer wipe.Bytes(tag)

	token := &authToken{
		Alg:           AlgDefault,
		IV:            iv,
		AuthTag:       tag,
		MessageLength: uint32(len(plaintext)),
	}
	out := make([]byte, 0, token.size()+len(ciphertext))
	out = append(out, token.marshal()...)
	out = append(out, ciphertext...)
	success = true
	return out, nil
}

// SealDecrypt reverses SealEncrypt. Tampering with the IV, auth tag or
// ciphertext, or a context mismatch, yields ErrInvalidSignature; a token
// whose length fields do not parse yields ErrDataCorrupt, and reserved alg
// bits or a message_length that does not match the ciphertext yield
// ErrFail.
func SealDecrypt(masterKey, blob, context []byte) ([]byte, error) {
	start := time.Now()
	success := false
	defer func() {
		metrics.CryptoOperations.WithLabelValues("unseal", aesGCMAlgorithmLabel).Inc()
		metrics.CryptoOperationDuration.WithLabelValues("unseal", aesGCMAlgorithmLabel).Observe(time.Since(start).Seconds())
		metrics.GlobalCollector().RecordUnseal(success, time.Since(start))
	}()

	if len(masterKey) == 0 {
		return nil, ecrypterr.ErrInvalidParameter
	}

	// The fixed-size prefix is enough to learn iv_length and
	// auth_tag_length and therefore the full token size.
	if len(blob) < authTokenFixedSize {
		metrics.CryptoErrors.WithLabelValues("unseal", "data_corrupt").Inc()
		return nil, ecrypterr.ErrDataCorrupt
	}
	ivLen := int(endian.Uint32LE(blob[4:]))
	if ivLen < 0 || len(blob) < 8+ivLen+4 {
		metrics.CryptoErrors.WithLabelValues("unseal", "data_corrupt").Inc()
		return nil, ecrypterr.ErrDataCorrupt
	}
	tagLen := int(endian.Uint32LE(blob[8+ivLen:]))
	tokenSize := authTokenFixedSize + ivLen + tagLen
	if tokenSize < 0 || len(blob) < tokenSize {
		metrics.CryptoErrors.WithLabelValues("unseal", "data_corrupt").Inc()
		return nil, ecrypterr.ErrDataCorrupt
	}

	token, err := unmarshalAuthToken(blob[:tokenSize])
	if err != nil {
		metrics.CryptoErrors.WithLabelValues("unseal", "fail").Inc()
		return nil, err
	}
	ciphertext := blob[tokenSize:]
	if int(token.MessageLength) != len(ciphertext) {
		metrics.CryptoErrors.WithLabelValues("unseal", "fail").Inc()
		return nil, ecrypterr.ErrFail
	}

	key, err := deriveMessageKey(masterKey, len(ciphertext), context)
	if err != nil {
		return nil, err
	}
	defer wipe.Bytes(key)

	plaintext, err := primitives.Open(key, token.IV, context, ciphertext, token.AuthTag)
	if err != nil {
		metrics.CryptoErrors.WithLabelValues("unseal", "invalid_signature").Inc()
		return nil, err
	}
	success = true
	return plaintext, nil
}
