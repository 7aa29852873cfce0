/*
Package ntrutfhe is a pure Go implementation of bootstrapping over the NTRU ring Z_Q[X]/(X^N+1), with Q a power of two.
It evaluates lookup tables on LWE samples with a CMux based blind rotation, and converts LWE encryptions of bits into
GGSW ciphertexts through circuit bootstrapping.

The library is organized as follows:

  - ring: arithmetic over the power-of-two negacyclic ring, gadget decomposition and the Fourier transform.
  - core/lwe, core/rlwe: the LWE samples consumed and produced by the bootstrapping and the RLWE and GGSW ciphertexts of its output.
  - core/ntru: NTRU keys and ciphertexts, NGSW ciphertexts, the external product, key-switching, automorphisms and trace.
  - core/ntru/cmux: the blind rotation, the bootstrapping and the circuit bootstrapping, with their parameter profiles.
*/
package ntrutfhe
