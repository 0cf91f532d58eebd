// Package identity derives the stable ids that let a later render pass
// recognize "the same" expression slot or component instance.
//
// Ids are 64-bit xxhash digests of length-prefixed inputs. Nothing about the
// process enters the hash (no pointers, counters or random seeds), so the
// same template yields the same ids after a restart:
//
//	pos := identity.In("index.html").Child(0).Segment(1)
//	id := identity.DeriveAt(pos, "{{ name }}")
//
// Two textually identical expressions at different positions receive
// different ids because the position is part of the hashed input.
package identity
