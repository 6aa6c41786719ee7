/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

import "testing"

func TestBoxAccessors(t *testing.T) {
	b := FromSize(10, 20, 30, 40)
	if b.Left != 10 || b.Top != 20 || b.Right != 40 || b.Bottom != 60 {
		t.Fatalf("FromSize edges wrong: %+v", b)
	}
	if b.Width() != 30 || b.Height() != 40 {
		t.Fatalf("size wrong: %v x %v", b.Width(), b.Height())
	}
	if c := b.Center(); c.X != 25 || c.Y != 40 {
		t.Fatalf("center wrong: %+v", c)
	}
}

func TestContains(t *testing.T) {
	b := Box(0, 0, 10, 10)
	for _, tc := range []struct {
		p    Pt
		want bool
	}{
		{Pt{5, 5}, true},
		{Pt{0, 0}, true},
		{Pt{10, 10}, true},
		{Pt{10.01, 5}, false},
		{Pt{-1, 5}, false},
	} {
		if got := b.Contains(tc.p); got != tc.want {
			t.Fatalf("Contains(%+v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestUnionAndTranslated(t *testing.T) {
	u := Box(0, 0, 10, 10).Union(Box(5, -5, 20, 8))
	if u != Box(0, -5, 20, 10) {
		t.Fatalf("union wrong: %+v", u)
	}
	tr := Box(1, 2, 3, 4).Translated(10, 20)
	if tr != Box(11, 22, 13, 24) {
		t.Fatalf("translated wrong: %+v", tr)
	}
}

func TestCanon(t *testing.T) {
	if got := Box(10, 8, 2, 4).Canon(); got != Box(2, 4, 10, 8) {
		t.Fatalf("canon wrong: %+v", got)
	}
	ok := Box(1, 2, 3, 4)
	if got := ok.Canon(); got != ok {
		t.Fatalf("canon changed a normal box: %+v", got)
	}
}
