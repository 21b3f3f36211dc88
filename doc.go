//The MIT License (MIT)

//Copyright (c) 2013 didier amyot

//Permission is hereby granted, free of charge, to any person obtaining a copy
//of this software and associated documentation files (the "Software"), to deal
//in the Software without restriction, including without limitation the rights
//to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
//copies of the Software, and to permit persons to whom the Software is
//furnished to do so, subject to the following conditions:

//The above copyright notice and this permission notice shall be included in
//all copies or substantial portions of the Software.

//THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
//IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
//FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
//AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
//LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
//OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
//THE SOFTWARE.

/*
Package paillier implements a threshold variant of the Paillier
additively-homomorphic public-key cryptosystem. See
http://en.wikipedia.org/wiki/Paillier_cryptosystem for an introduction.

A trusted dealer generates a (PublicKey, PrivateKey) pair, splits the
PrivateKey into shares held by w-of-l decryption servers, and retires it.
Any holder of the PublicKey can encrypt and homomorphically combine
ciphertexts. Decryption requires a quorum of w servers, each producing a
PartialDecryption from its share, combined via Lagrange interpolation in the
exponent without ever reconstructing the private key.

The construction follows Damgard, Jurik and Nielsen, "A Generalization of
Paillier's Public-Key System with Applications to Electronic Voting",
Aarhus University, Dept. of Computer Science, BRICS, 2010, section 5.

Serialization to a stable wire form lives in the sibling wire package.
*/
package paillier
