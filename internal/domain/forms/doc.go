// Package forms defines the vocabulary shared by multi-model forms: the keyed
// payload a client submits, row keys, the entity input union and the
// per-entity error report handed back for redisplay.
package forms
