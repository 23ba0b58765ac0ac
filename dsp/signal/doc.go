// Package signal generates deterministic test signals, either as whole
// blocks ([Generator]) or one sample at a time ([Source]).
package signal
